package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jkivimaki/trainwise/internal/e2etest"
	"github.com/jkivimaki/trainwise/internal/testhelpers"
)

// exerciseOption returns the option value for an exercise by name in the log-set form.
func exerciseOption(t *testing.T, doc *goquery.Document, name string) string {
	t.Helper()
	var value string
	doc.Find("select#exercise_id option").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == name {
			value, _ = s.Attr("value")
			return false
		}
		return true
	})
	if value == "" {
		t.Fatalf("exercise %q not found in the log-set form", name)
	}
	return value
}

func startSession(t *testing.T, client *e2etest.Client, date string) *goquery.Document {
	t.Helper()
	ctx := t.Context()

	doc, err := client.GetDoc(ctx, "/workouts/"+date)
	if err != nil {
		t.Fatalf("Failed to get workout page: %v", err)
	}
	if doc, err = client.SubmitForm(ctx, doc, "/workouts/"+date+"/start", nil); err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}
	return doc
}

func Test_application_workout(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	today := time.Now().Format("2006-01-02")

	// A session the day before establishes the exercise history.
	doc := startSession(t, client, yesterday)
	bench := exerciseOption(t, doc, "Bench Press")
	doc, err = client.SubmitForm(ctx, doc, "/workouts/"+yesterday+"/sets", map[string]string{
		"Exercise": bench,
		"Weight":   "100",
		"Reps":     "5",
		"Effort":   "8",
	})
	if err != nil {
		t.Fatalf("Failed to log set: %v", err)
	}
	if flash := doc.Find(".flash").Text(); flash != "" {
		t.Errorf("Expected no record flash for the first ever set, got: %s", flash)
	}

	doc = startSession(t, client, today)

	t.Run("heavier set flags a weight record", func(t *testing.T) {
		doc, err = client.SubmitForm(ctx, doc, "/workouts/"+today+"/sets", map[string]string{
			"Exercise": bench,
			"Weight":   "105",
			"Reps":     "5",
			"Effort":   "9",
		})
		if err != nil {
			t.Fatalf("Failed to log set: %v", err)
		}

		if flash := doc.Find(".flash").Text(); !strings.Contains(flash, "New weight record!") {
			t.Errorf("Expected a weight record flash, got: %s", flash)
		}
		if text := doc.Text(); !strings.Contains(text, "105") {
			t.Errorf("Expected the logged set in the session view, got: %s", text)
		}
	})

	t.Run("completing yields a verdict", func(t *testing.T) {
		doc, err = client.SubmitForm(ctx, doc, "/workouts/"+today+"/complete", nil)
		if err != nil {
			t.Fatalf("Failed to complete session: %v", err)
		}

		text := doc.Text()
		if !strings.Contains(text, "Session complete: productive") {
			t.Errorf("Expected a productive verdict flash, got: %s", text)
		}
		if !strings.Contains(text, "Completed, verdict:") {
			t.Errorf("Expected the stored verdict on the page, got: %s", text)
		}
	})

	t.Run("exercise info shows personal bests", func(t *testing.T) {
		infoDoc, infoErr := client.GetDoc(ctx, fmt.Sprintf("/workouts/%s/exercises/%s/info", today, bench))
		if infoErr != nil {
			t.Fatalf("Failed to get exercise info: %v", infoErr)
		}

		text := infoDoc.Text()
		if !strings.Contains(text, "Bench Press") {
			t.Errorf("Expected the exercise name, got: %s", text)
		}
		if !strings.Contains(text, "Heaviest weight: 105 kg") {
			t.Errorf("Expected the weight record, got: %s", text)
		}
	})
}
