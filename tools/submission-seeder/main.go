// submission-seeder posts generated board applications to a running intake
// service. Development tool only: it exercises the full multipart path,
// including attachments and (optionally) honeypot spam.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	intakeURL  = flag.String("url", "http://localhost:8086/api/apply", "intake endpoint URL")
	count      = flag.Int("count", 20, "Number of submissions to generate")
	interval   = flag.Duration("interval", 250*time.Millisecond, "Interval between submissions")
	spamRatio  = flag.Float64("spam-ratio", 0.0, "Fraction of submissions with the honeypot filled (0.0-1.0)")
	withFiles  = flag.Bool("with-files", true, "Attach a generated resume to each submission")
	skillCount = flag.Int("skills", 3, "Number of skills checkboxes per submission")
)

var skillPool = []string{
	"Finance", "Legal", "Fundraising", "Clinical", "Marketing",
	"Community Outreach", "Strategic Planning", "Human Resources",
}

var committeePool = []string{
	"Finance", "Governance", "Outreach", "Quality", "Development",
}

func main() {
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Starting submission seeder:")
	log.Printf("  URL: %s", *intakeURL)
	log.Printf("  Count: %d", *count)
	log.Printf("  Interval: %v", *interval)
	log.Printf("  Spam ratio: %.2f", *spamRatio)

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	successCount := 0
	failCount := 0

	for i := 0; i < *count; i++ {
		spam := rand.Float64() < *spamRatio
		if err := sendSubmission(client, *intakeURL, spam); err != nil {
			log.Printf("Failed to send submission %d: %v", i+1, err)
			failCount++
		} else {
			successCount++
		}

		if *interval > 0 && i < *count-1 {
			time.Sleep(*interval)
		}
	}

	log.Printf("\nSeeding complete:")
	log.Printf("  Success: %d submissions", successCount)
	log.Printf("  Failed: %d submissions", failCount)
}

func sendSubmission(client *http.Client, url string, spam bool) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	name := gofakeit.Name()
	fields := map[string]string{
		"name":             name,
		"email":            gofakeit.Email(),
		"role":             gofakeit.RandomString([]string{"Board", "CAB"}),
		"phone":            gofakeit.Phone(),
		"occupation":       gofakeit.JobTitle(),
		"employer":         gofakeit.Company(),
		"city":             gofakeit.City(),
		"state":            gofakeit.StateAbr(),
		"board_experience": gofakeit.RandomString([]string{"Yes", "No"}),
		"fundraising":      gofakeit.RandomString([]string{"Yes", "No", "Maybe"}),
		"officer_interest": gofakeit.RandomString([]string{"Yes", "No"}),
		"bio":              gofakeit.Paragraph(1, 3, 12, " "),
		"ref1_name":        gofakeit.Name(),
		"ref1_email":       gofakeit.Email(),
		"ref2_name":        gofakeit.Name(),
		"ref2_email":       gofakeit.Email(),
	}
	if spam {
		fields["website"] = gofakeit.URL()
	}

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}

	for _, skill := range pick(skillPool, *skillCount) {
		if err := w.WriteField("skills", skill); err != nil {
			return err
		}
	}
	for _, committee := range pick(committeePool, 2) {
		if err := w.WriteField("committees", committee); err != nil {
			return err
		}
	}

	if *withFiles {
		fw, err := w.CreateFormFile("files", strings.ReplaceAll(strings.ToLower(name), " ", "-")+"-resume.txt")
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(fw, "Resume for %s\n\n%s\n", name, gofakeit.Paragraph(2, 4, 10, " ")); err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}

	resp, err := client.Post(url, w.FormDataContentType(), &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func pick(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	shuffled := append([]string(nil), pool...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
