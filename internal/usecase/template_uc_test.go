// File: internal/usecase/template_uc_test.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/adapter"
	"propfirm-web/internal/domain/ports/repository"
	"propfirm-web/internal/infra/worker"
)

func newTemplateHarness(t *testing.T, sender adapter.EmailSender) (*templateUC, *memOrderRepo) {
	t.Helper()
	orders := newMemOrderRepo()
	pool := worker.NewPool(4, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	t.Cleanup(func() {
		cancel()
		pool.Stop()
	})
	return NewTemplateUseCase(sender, orders, pool, newTestLogger()), orders
}

// waitForBulk polls until the background run reports finished.
func waitForBulk(t *testing.T, uc *templateUC) BulkProgress {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if p := uc.Progress(); p.Total > 0 && !p.Running {
			return p
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("bulk run did not finish in time")
	return BulkProgress{}
}

func TestTemplateCRUD(t *testing.T) {
	t.Parallel()
	uc, _ := newTemplateHarness(t, newFakeSender())

	seeded := len(uc.List())
	if seeded == 0 {
		t.Fatal("no seed templates loaded")
	}

	created := uc.Create("Welcome Back", "Hi {{firstName}}", "<p>Hi {{firstName}}</p>", []string{"firstName"}, false)
	if created.ID <= seeded {
		t.Fatalf("new id %d collides with the seeds", created.ID)
	}

	got, err := uc.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// Returned copies never alias the stored template.
	got.Subject = "mutated"
	if again, _ := uc.Get(created.ID); again.Subject != "Hi {{firstName}}" {
		t.Error("Get returned the stored pointer")
	}

	updated, err := uc.Update(created.ID, "Welcome Back", "Hello {{firstName}}", created.Body, created.Variables, true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Subject != "Hello {{firstName}}" || !updated.Bulk {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := uc.Get(9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing id: err = %v, want ErrNotFound", err)
	}
	if _, err := uc.Update(9999, "", "", "", nil, false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update missing id: err = %v, want ErrNotFound", err)
	}
}

func TestRenderPreviewAndSendSingle(t *testing.T) {
	t.Parallel()
	sender := newFakeSender()
	uc, _ := newTemplateHarness(t, sender)

	tpl := uc.Create("Reset", "Your {{size}} reset", "<p>{{firstName}}, your {{size}} reset is live.</p>", []string{"firstName", "size"}, false)

	subject, body, err := uc.RenderPreview(tpl.ID, map[string]string{"firstName": "Ada", "size": "50k"})
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	if subject != "Your 50k reset" {
		t.Errorf("subject = %q", subject)
	}
	if body != "<p>Ada, your 50k reset is live.</p>" {
		t.Errorf("body = %q", body)
	}

	if err := uc.SendSingle(context.Background(), tpl.ID, "ada@example.test", map[string]string{"firstName": "Ada", "size": "50k"}); err != nil {
		t.Fatalf("SendSingle: %v", err)
	}
	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 || sender.sent[0].To != "ada@example.test" || sender.sent[0].Subject != "Your 50k reset" {
		t.Fatalf("sent = %+v", sender.sent)
	}
}

func TestBulkSendBatchesWithPauses(t *testing.T) {
	t.Parallel()
	sender := newFakeSender()
	sender.failFor["bad-3@example.test"] = true
	sender.failFor["bad-17@example.test"] = true
	uc, _ := newTemplateHarness(t, sender)

	var pauses atomic.Int32
	uc.sleep = func(d time.Duration) {
		if d == bulkBatchPause {
			pauses.Add(1)
		}
	}

	tpl := uc.Create("Campaign", "Hi {{firstName}}", "<p>Go</p>", []string{"firstName"}, true)

	recipients := make([]Recipient, 0, 25)
	for i := 0; i < 25; i++ {
		email := recipientEmail(i)
		recipients = append(recipients, Recipient{Email: email, Vars: map[string]string{"firstName": "T"}})
	}

	if err := uc.StartBulk(tpl.ID, recipients); err != nil {
		t.Fatalf("StartBulk: %v", err)
	}
	progress := waitForBulk(t, uc)

	if progress.Total != 25 {
		t.Fatalf("total = %d", progress.Total)
	}
	if progress.Sent+progress.Failed != 25 {
		t.Fatalf("sent %d + failed %d != 25", progress.Sent, progress.Failed)
	}
	if progress.Failed != 2 {
		t.Fatalf("failed = %d, want the 2 refused recipients", progress.Failed)
	}
	if sender.sentCount() != 23 {
		t.Fatalf("delivered = %d, want 23", sender.sentCount())
	}
	// 25 recipients make three batches with a pause after each full one.
	if got := pauses.Load(); got != 2 {
		t.Fatalf("pauses = %d, want 2", got)
	}
}

func recipientEmail(i int) string {
	if i == 3 || i == 17 {
		return fmt.Sprintf("bad-%d@example.test", i)
	}
	return fmt.Sprintf("rcpt-%d@example.test", i)
}

func TestBulkSendOneRunAtATime(t *testing.T) {
	t.Parallel()
	gate := &gatedSender{release: make(chan struct{})}
	uc, _ := newTemplateHarness(t, gate)
	uc.sleep = func(time.Duration) {}

	tpl := uc.Create("Campaign", "s", "b", nil, true)
	recipients := []Recipient{{Email: "one@example.test"}, {Email: "two@example.test"}}

	if err := uc.StartBulk(tpl.ID, recipients); err != nil {
		t.Fatalf("StartBulk: %v", err)
	}
	if err := uc.StartBulk(tpl.ID, recipients); !errors.Is(err, ErrBulkRunActive) {
		t.Fatalf("second run: err = %v, want ErrBulkRunActive", err)
	}
	if err := uc.StartBulk(9999, recipients); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing template: err = %v, want ErrNotFound", err)
	}

	close(gate.release)
	progress := waitForBulk(t, uc)
	if progress.Sent != 2 {
		t.Fatalf("sent = %d", progress.Sent)
	}

	// A finished run frees the slot.
	if err := uc.StartBulk(tpl.ID, recipients); err != nil {
		t.Fatalf("third run after finish: %v", err)
	}
	waitForBulk(t, uc)
}

// gatedSender blocks every delivery until released.
type gatedSender struct {
	release chan struct{}
	mu      sync.Mutex
	n       int
}

func (g *gatedSender) Send(ctx context.Context, params adapter.SendEmailParams) error {
	<-g.release
	g.mu.Lock()
	g.n++
	g.mu.Unlock()
	return nil
}

func TestCampaignRecipientsDeduplicates(t *testing.T) {
	t.Parallel()
	uc, orders := newTemplateHarness(t, newFakeSender())
	ctx := context.Background()

	save := func(id, email, tag, first string) {
		t.Helper()
		err := orders.Save(ctx, repository.NoTX, &model.Order{
			ID:          id,
			Kind:        model.OrderActivationForm,
			Challenge:   model.ChallengeStandard,
			AccountSize: "50k",
			CampaignTag: tag,
			PromoCode:   "NYE2026",
			Form:        model.ContactForm{FirstName: first, Email: email},
			Status:      model.OrderStatusPaid,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	save("o1", "ada@example.test", "nye", "Ada")
	save("o2", "ADA@example.test", "nye", "Ada") // same buyer, different case
	save("o3", "bo@example.test", "nye", "Bo")
	save("o4", "", "nye", "")                    // no address recorded
	save("o5", "cleo@example.test", "gauntlet", "Cleo")

	got, err := uc.CampaignRecipients(ctx, "nye")
	if err != nil {
		t.Fatalf("CampaignRecipients: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("recipients = %+v, want 2", got)
	}
	for _, r := range got {
		if r.Vars["promoCode"] != "NYE2026" || r.Vars["challenge"] != "standard" {
			t.Errorf("vars = %+v", r.Vars)
		}
	}
}

func TestCampaignRecipientsDegradesOnRepoError(t *testing.T) {
	t.Parallel()
	uc, orders := newTemplateHarness(t, newFakeSender())
	orders.listErr = errors.New("db down")

	got, err := uc.CampaignRecipients(context.Background(), "nye")
	if err != nil {
		t.Fatalf("CampaignRecipients: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("recipients = %+v, want empty", got)
	}
}

func TestAppendRecipient(t *testing.T) {
	t.Parallel()
	list := []Recipient{{Email: "ada@example.test"}}

	list, added := AppendRecipient(list, Recipient{Email: "bo@example.test"})
	if !added || len(list) != 2 {
		t.Fatalf("added=%v len=%d", added, len(list))
	}
	list, added = AppendRecipient(list, Recipient{Email: "ADA@example.test"})
	if added || len(list) != 2 {
		t.Fatalf("case-variant duplicate appended: added=%v len=%d", added, len(list))
	}
}
