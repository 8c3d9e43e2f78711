package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"medibook-server/config"
	"medibook-server/internal/wizard"

	"github.com/sirupsen/logrus"
)

// SheetRow is the flattened payload the spreadsheet webhook accepts.
type SheetRow struct {
	Timestamp   string `json:"timestamp"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	IDNumber    string `json:"idNumber"`
	Birthday    string `json:"birthday"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
	Doctor      string `json:"doctor"`
	VisitType   string `json:"visitType"`
}

// SheetsService posts finished appointments to the spreadsheet webhook.
// The channel is strictly one-way: the response is not inspected, nothing
// is retried, and failures are only logged. A missing endpoint turns the
// whole service into a logged no-op so the booking flow never depends on it.
type SheetsService struct {
	endpoint string
	client   *http.Client
	log      *logrus.Logger
}

func NewSheetsService(cfg config.SheetsConfig, log *logrus.Logger) *SheetsService {
	return &SheetsService{
		endpoint: cfg.WebhookURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Submit sends the flattened appointment record. Best effort: every failure
// path resolves to a log line.
func (s *SheetsService) Submit(ctx context.Context, appt *wizard.Appointment) {
	if s.endpoint == "" {
		s.log.Warn("Sheets webhook URL not set, skipping submission")
		return
	}

	row := SheetRow{
		Timestamp:   time.Now().Format(time.RFC3339),
		Name:        appt.Name,
		PhoneNumber: appt.PhoneNumber,
		IDNumber:    appt.IDNumber,
		Birthday:    appt.Birthday,
		Date:        appt.Date,
	}
	if appt.TimeSlot != nil {
		row.TimeSlot = appt.TimeSlot.Label
	}
	if appt.Doctor != nil {
		row.Doctor = appt.Doctor.Name
	}
	if appt.VisitType != nil {
		row.VisitType = appt.VisitType.Label
	}

	payload, err := json.Marshal(row)
	if err != nil {
		s.log.Errorf("Failed to marshal sheet row: %+v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		s.log.Errorf("Failed to build sheets request: %+v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Errorf("Failed to send appointment to sheets webhook: %+v", err)
		return
	}
	resp.Body.Close()

	s.log.Infof("Appointment for %s sent to sheets webhook", appt.PhoneNumber)
}
