package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/adapter"
	"propfirm-web/internal/domain/ports/repository"
	"propfirm-web/internal/infra/metrics"
	"propfirm-web/internal/infra/worker"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ TemplateUseCase = (*templateUC)(nil)

// bulkBatchSize recipients are sent concurrently, then the whole batch must
// settle before the next one starts, with a courtesy pause in between.
const (
	bulkBatchSize  = 10
	bulkBatchPause = time.Second
)

var ErrBulkRunActive = errors.New("a bulk send is already running")

// Recipient is one bulk-send target with its substitution values.
type Recipient struct {
	Email string            `json:"email"`
	Vars  map[string]string `json:"vars,omitempty"`
}

// BulkProgress is a snapshot of the running (or last) bulk send.
type BulkProgress struct {
	Total   int  `json:"total"`
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
	Running bool `json:"running"`
}

// TemplateUseCase is the admin email console. Templates live in process
// memory only: the seed set exists at start, edits last for the process
// lifetime, and nothing is persisted.
type TemplateUseCase interface {
	List() []*model.EmailTemplate
	Get(id int) (*model.EmailTemplate, error)
	Create(name, subject, body string, variables []string, bulk bool) *model.EmailTemplate
	Update(id int, name, subject, body string, variables []string, bulk bool) (*model.EmailTemplate, error)
	// RenderPreview substitutes {{key}} tokens; unresolved ones stay verbatim.
	RenderPreview(id int, vars map[string]string) (subject, body string, err error)
	SendSingle(ctx context.Context, id int, to string, vars map[string]string) error
	// StartBulk launches the batched send in the background. One run at a
	// time; there is no cancel, matching the console's fire-and-forget UI.
	StartBulk(id int, recipients []Recipient) error
	Progress() BulkProgress
	// CampaignRecipients loads bulk targets from orders carrying the tag,
	// de-duplicated by lower-cased email.
	CampaignRecipients(ctx context.Context, tag string) ([]Recipient, error)
}

type templateUC struct {
	sender adapter.EmailSender
	orders repository.OrderRepository
	pool   *worker.Pool
	log    *zerolog.Logger

	mu        sync.RWMutex
	templates map[int]*model.EmailTemplate
	nextID    int

	runMu sync.Mutex
	run   BulkProgress

	// injectable for tests
	sleep func(time.Duration)
	now   func() time.Time
}

func NewTemplateUseCase(sender adapter.EmailSender, orders repository.OrderRepository, pool *worker.Pool, logger *zerolog.Logger) *templateUC {
	uc := &templateUC{
		sender:    sender,
		orders:    orders,
		pool:      pool,
		log:       logger,
		templates: make(map[int]*model.EmailTemplate),
		nextID:    1,
		sleep:     time.Sleep,
		now:       time.Now,
	}
	for _, t := range model.SeedTemplates() {
		uc.templates[t.ID] = t
		if t.ID >= uc.nextID {
			uc.nextID = t.ID + 1
		}
	}
	return uc
}

func (u *templateUC) List() []*model.EmailTemplate {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]*model.EmailTemplate, 0, len(u.templates))
	for _, t := range u.templates {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (u *templateUC) Get(id int) (*model.EmailTemplate, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	t, ok := u.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (u *templateUC) Create(name, subject, body string, variables []string, bulk bool) *model.EmailTemplate {
	u.mu.Lock()
	defer u.mu.Unlock()
	t := &model.EmailTemplate{
		ID:        u.nextID,
		Name:      name,
		Subject:   subject,
		Body:      body,
		Variables: variables,
		Bulk:      bulk,
		UpdatedAt: u.now(),
	}
	u.templates[t.ID] = t
	u.nextID++
	cp := *t
	return &cp
}

func (u *templateUC) Update(id int, name, subject, body string, variables []string, bulk bool) (*model.EmailTemplate, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	t, ok := u.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Name = name
	t.Subject = subject
	t.Body = body
	t.Variables = variables
	t.Bulk = bulk
	t.UpdatedAt = u.now()
	cp := *t
	return &cp, nil
}

func (u *templateUC) RenderPreview(id int, vars map[string]string) (string, string, error) {
	t, err := u.Get(id)
	if err != nil {
		return "", "", err
	}
	subject, body := t.Render(vars)
	return subject, body, nil
}

func (u *templateUC) SendSingle(ctx context.Context, id int, to string, vars map[string]string) error {
	t, err := u.Get(id)
	if err != nil {
		return err
	}
	subject, body := t.Render(vars)
	if err := u.sender.Send(ctx, adapter.SendEmailParams{To: to, Subject: subject, HTML: body}); err != nil {
		metrics.IncEmail("single", "failed")
		u.log.Error().Err(err).Str("to", to).Int("template_id", id).Msg("single send failed")
		return err
	}
	metrics.IncEmail("single", "sent")
	return nil
}

func (u *templateUC) StartBulk(id int, recipients []Recipient) error {
	t, err := u.Get(id)
	if err != nil {
		return err
	}

	u.runMu.Lock()
	if u.run.Running {
		u.runMu.Unlock()
		return ErrBulkRunActive
	}
	u.run = BulkProgress{Total: len(recipients), Running: true}
	u.runMu.Unlock()

	go u.runBulk(t, recipients)
	return nil
}

// runBulk walks the recipient list in fixed-size batches: every send in a
// batch goes out concurrently through the worker pool, the batch settles
// behind a WaitGroup barrier, then the run pauses before the next batch. A
// failed recipient is counted and the run continues; nothing is retried.
func (u *templateUC) runBulk(t *model.EmailTemplate, recipients []Recipient) {
	// No cancellation is exposed for a running send; tasks use the pool's
	// own lifetime context.
	u.log.Info().Int("recipients", len(recipients)).Int("template_id", t.ID).Msg("bulk send started")

	for start := 0; start < len(recipients); start += bulkBatchSize {
		end := start + bulkBatchSize
		if end > len(recipients) {
			end = len(recipients)
		}
		batch := recipients[start:end]
		batchStart := u.now()

		var wg sync.WaitGroup
		for _, rcpt := range batch {
			wg.Add(1)
			rcpt := rcpt
			task := func(ctx context.Context) error {
				defer wg.Done()
				subject, body := t.Render(rcpt.Vars)
				if err := u.sender.Send(ctx, adapter.SendEmailParams{To: rcpt.Email, Subject: subject, HTML: body}); err != nil {
					u.countBulk(false)
					metrics.IncEmail("bulk", "failed")
					u.log.Warn().Err(err).Str("to", rcpt.Email).Msg("bulk send recipient failed")
					return nil // counted, not a pool-level error
				}
				u.countBulk(true)
				metrics.IncEmail("bulk", "sent")
				return nil
			}
			if err := u.pool.Submit(task); err != nil {
				wg.Done()
				u.countBulk(false)
				metrics.IncEmail("bulk", "failed")
				u.log.Warn().Err(err).Str("to", rcpt.Email).Msg("bulk send submit failed")
			}
		}
		wg.Wait()
		metrics.ObserveBulkBatchMs(float64(u.now().Sub(batchStart).Milliseconds()))

		if end < len(recipients) {
			u.sleep(bulkBatchPause)
		}
	}

	u.runMu.Lock()
	u.run.Running = false
	summary := u.run
	u.runMu.Unlock()
	metrics.IncBulkRun()
	u.log.Info().
		Int("total", summary.Total).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("bulk send finished")
}

func (u *templateUC) countBulk(sent bool) {
	u.runMu.Lock()
	if sent {
		u.run.Sent++
	} else {
		u.run.Failed++
	}
	u.runMu.Unlock()
}

func (u *templateUC) Progress() BulkProgress {
	u.runMu.Lock()
	defer u.runMu.Unlock()
	return u.run
}

func (u *templateUC) CampaignRecipients(ctx context.Context, tag string) ([]Recipient, error) {
	orders, err := u.orders.ListByCampaignTag(ctx, repository.NoTX, tag)
	if err != nil {
		// Passive load: degrade to an empty list rather than failing the page.
		u.log.Error().Err(err).Str("tag", tag).Msg("campaign recipient load failed")
		return []Recipient{}, nil
	}
	seen := make(map[string]bool, len(orders))
	out := make([]Recipient, 0, len(orders))
	for _, o := range orders {
		key := strings.ToLower(o.Form.Email)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Recipient{
			Email: o.Form.Email,
			Vars: map[string]string{
				"firstName": o.Form.FirstName,
				"challenge": string(o.Challenge),
				"promoCode": o.PromoCode,
			},
		})
	}
	return out, nil
}

// AppendRecipient adds a manual entry unless its address (case-insensitive)
// is already in the list. Returns the list and whether it grew.
func AppendRecipient(list []Recipient, r Recipient) ([]Recipient, bool) {
	key := strings.ToLower(r.Email)
	for _, existing := range list {
		if strings.ToLower(existing.Email) == key {
			return list, false
		}
	}
	return append(list, r), true
}
