// File: cmd/seed/main.go
// Seeds local development data: a few accounts, polls, and settled orders so
// the community pages and the admin console have something to show.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"propfirm-web/internal/config"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
	pg "propfirm-web/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	users := pg.NewPostgresUserRepo(pool)
	polls := pg.NewPollRepo(pool)
	comments := pg.NewCommentRepo(pool)
	orders := pg.NewOrderRepo(pool)

	seedUsers := []struct{ id, email, name string }{
		{"uid-alice", "alice@example.test", "alice_fx"},
		{"uid-bab", "bab@example.test", "bab-trader"},
		{"uid-cleo", "cleo@example.test", ""},
	}
	for _, su := range seedUsers {
		u, err := model.NewUser(su.id, su.email)
		if err != nil {
			log.Fatalf("seed user: %v", err)
		}
		if err := users.Save(ctx, repository.NoTX, u); err != nil {
			log.Fatalf("save user %s: %v", su.id, err)
		}
		if su.name != "" {
			if err := users.SetUsername(ctx, repository.NoTX, su.id, su.name); err != nil {
				log.Printf("set username %s: %v", su.name, err)
			}
		}
	}

	poll, err := model.NewPoll(ulid.Make().String(), "Should we add a 500k tier?", "Vote and tell us why in the comments.", "alice_fx")
	if err != nil {
		log.Fatalf("seed poll: %v", err)
	}
	_ = poll.CastVote("uid-alice", model.VoteYes)
	_ = poll.CastVote("uid-bab", model.VoteNo)
	if err := polls.Save(ctx, repository.NoTX, poll); err != nil {
		log.Fatalf("save poll: %v", err)
	}
	c, err := model.NewComment(ulid.Make().String(), poll.ID, "bab-trader", "Only if the drawdown rules scale too.")
	if err != nil {
		log.Fatalf("seed comment: %v", err)
	}
	if err := comments.Save(ctx, repository.NoTX, c); err != nil {
		log.Fatalf("save comment: %v", err)
	}

	now := time.Now()
	order := &model.Order{
		ID:          ulid.Make().String(),
		Kind:        model.OrderActivationForm,
		Challenge:   model.ChallengeStandard,
		AccountSize: "50k",
		Platform:    "MT5",
		AmountCents: 16750,
		Currency:    "USD",
		CampaignTag: "nye",
		Form:        model.ContactForm{FirstName: "Alice", LastName: "Ng", Email: "alice@example.test"},
		Status:      model.OrderStatusPaid,
		Provider:    "noop",
		ProviderRef: "seed-charge-1",
		RedirectTo:  "/payment-pending",
		CreatedAt:   now,
		UpdatedAt:   now,
		PaidAt:      &now,
	}
	if err := orders.Save(ctx, repository.NoTX, order); err != nil {
		log.Fatalf("save order: %v", err)
	}

	log.Println("seed complete")
}
