package model

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesTokens(t *testing.T) {
	t.Parallel()

	tpl := &EmailTemplate{
		Subject: "Hi {{firstName}}",
		Body:    "<p>Your {{challenge}} ({{accountSize}}) is ready, {{firstName}}.</p>",
	}
	subject, body := tpl.Render(map[string]string{
		"firstName":   "Alice",
		"challenge":   "standard",
		"accountSize": "50k",
	})
	if subject != "Hi Alice" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "Your standard (50k) is ready, Alice.") {
		t.Errorf("body = %q", body)
	}
}

func TestRenderLeavesUnresolvedTokensVerbatim(t *testing.T) {
	t.Parallel()

	tpl := &EmailTemplate{Subject: "Hi {{firstName}}", Body: "{{promoCode}} for you"}
	subject, body := tpl.Render(nil)
	if subject != "Hi {{firstName}}" || body != "{{promoCode}} for you" {
		t.Errorf("unresolved tokens must pass through, got %q / %q", subject, body)
	}
}

func TestSeedTemplatesShape(t *testing.T) {
	t.Parallel()

	seeds := SeedTemplates()
	if len(seeds) == 0 {
		t.Fatal("no seed templates")
	}
	ids := map[int]bool{}
	bulk := 0
	for _, tpl := range seeds {
		if ids[tpl.ID] {
			t.Errorf("duplicate template id %d", tpl.ID)
		}
		ids[tpl.ID] = true
		if tpl.Name == "" || tpl.Subject == "" || tpl.Body == "" {
			t.Errorf("template %d incomplete", tpl.ID)
		}
		if tpl.Bulk {
			bulk++
		}
		// Every declared variable should appear as a token somewhere.
		for _, v := range tpl.Variables {
			token := "{{" + v + "}}"
			if !strings.Contains(tpl.Subject, token) && !strings.Contains(tpl.Body, token) {
				t.Errorf("template %d declares %s but never uses it", tpl.ID, v)
			}
		}
	}
	if bulk == 0 {
		t.Error("expected at least one bulk-capable seed template")
	}
}
