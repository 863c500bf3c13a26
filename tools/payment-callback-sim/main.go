package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

var knownStatuses = []string{"approved", "pending", "in_process", "rejected", "cancelled", "refunded", "charged_back"}

func main() {
	var (
		baseURL   = flag.String("base-url", getenv("BASE_URL", "http://localhost:8080"), "salon-core base url")
		paymentID = flag.String("payment-id", getenv("PROVIDER_PAYMENT_ID", ""), "provider payment id (defaults to a generated test id)")
		status    = flag.String("status", getenv("PROVIDER_STATUS", "approved"), "provider payment status: "+strings.Join(knownStatuses, "|"))
		reference = flag.String("reference", getenv("PROVIDER_REFERENCE", ""), "provider preference reference (fallback match key)")
	)
	flag.Parse()

	id := strings.TrimSpace(*paymentID)
	if id == "" {
		id = fmt.Sprintf("pay_test_%d", time.Now().UTC().UnixNano())
	}

	payload, err := json.Marshal(map[string]any{
		"provider_payment_id":   id,
		"provider_status":       strings.TrimSpace(*status),
		"appointment_reference": strings.TrimSpace(*reference),
	})
	if err != nil {
		fatal(err.Error())
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(*baseURL, "/")+"/api/v1/payments/callback", bytes.NewReader(payload))
	if err != nil {
		fatal(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fatal(err.Error())
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	fmt.Printf("status=%d body=%s\n", resp.StatusCode, strings.TrimSpace(body.String()))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
