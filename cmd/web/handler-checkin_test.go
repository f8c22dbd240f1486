package main

import (
	"strings"
	"testing"

	"github.com/jkivimaki/trainwise/internal/e2etest"
	"github.com/jkivimaki/trainwise/internal/testhelpers"
)

func Test_application_checkin(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()

	doc, err := client.GetDoc(ctx, "/checkin")
	if err != nil {
		t.Fatalf("Failed to get check-in page: %v", err)
	}
	if doc.Find("form[action='/checkin']").Length() != 1 {
		t.Fatal("Expected the readiness questionnaire form")
	}

	t.Run("submit ratings", func(t *testing.T) {
		doc, err = client.SubmitForm(ctx, doc, "/checkin", map[string]string{
			"Sleep quality": "4",
			"Freshness":     "4",
			"Calm":          "5",
		})
		if err != nil {
			t.Fatalf("Failed to submit check-in: %v", err)
		}

		text := doc.Text()
		if !strings.Contains(text, "Suggested level: full") {
			t.Errorf("Expected full training suggestion, got: %s", text)
		}
	})

	t.Run("override preserves suggestion", func(t *testing.T) {
		doc, err = client.SubmitForm(ctx, doc, "/checkin/override", map[string]string{
			"Level": "light",
		})
		if err != nil {
			t.Fatalf("Failed to override level: %v", err)
		}

		text := doc.Text()
		if !strings.Contains(text, "Suggested level: full") {
			t.Errorf("Expected the suggestion to stay on record, got: %s", text)
		}
		if !strings.Contains(text, "Overridden to: light") {
			t.Errorf("Expected the override to show, got: %s", text)
		}
		if !strings.Contains(text, "Load factor 0.75") {
			t.Errorf("Expected the light adjustment, got: %s", text)
		}
	})
}
