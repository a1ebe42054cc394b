package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/coolcare/coolcare/internal/models"
)

// DefaultSendDelay is the inter-send pause used by the reference
// deployment's SMS provider rate limit.
const DefaultSendDelay = 2 * time.Second

// Dispatcher sends one SMS per eligible recipient, strictly in input
// order, pausing between successful sends. The sequential loop is a
// deliberate backpressure mechanism for the rate-limited provider, not
// an accidental limitation; sends must not be parallelized.
type Dispatcher struct {
	gateway    Gateway
	delay      time.Duration
	profileURL string
	sleep      func(time.Duration) // swapped out in tests
}

// NewDispatcher creates a dispatcher. A negative delay is a
// misconfiguration and is rejected up front.
func NewDispatcher(gateway Gateway, delay time.Duration, profileURL string) (*Dispatcher, error) {
	if gateway == nil {
		return nil, errors.New("notify: gateway is required")
	}
	if delay < 0 {
		return nil, fmt.Errorf("notify: negative send delay %v", delay)
	}
	if profileURL == "" {
		profileURL = "https://app.coolcare.example/clients"
	}
	return &Dispatcher{
		gateway:    gateway,
		delay:      delay,
		profileURL: profileURL,
		sleep:      time.Sleep,
	}, nil
}

// Run executes one campaign over the recipient list and always returns
// a complete result covering every input recipient; individual
// failures never abort the batch. Ineligible recipients are recorded
// as failures without touching the gateway or the send delay.
func (d *Dispatcher) Run(ctx context.Context, recipients []models.Recipient) *models.CampaignResult {
	result := &models.CampaignResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Outcomes:  make([]models.RecipientOutcome, 0, len(recipients)),
	}

	runLog := log.WithFields(log.Fields{
		"run_id":     result.RunID,
		"recipients": len(recipients),
	})
	runLog.Info("Starting notification campaign")

	for i, recipient := range recipients {
		outcome := models.RecipientOutcome{
			ClientID:   recipient.ClientID,
			ClientName: recipient.Name,
		}

		if err := recipient.Eligible(); err != nil {
			outcome.Error = err.Error()
			result.FailureCount++
			result.Outcomes = append(result.Outcomes, outcome)
			runLog.WithFields(log.Fields{
				"client_id": recipient.ClientID,
				"reason":    err.Error(),
			}).Warn("Skipping ineligible recipient")
			continue
		}

		res, err := d.gateway.Send(ctx, recipient.Mobile, d.renderMessage(recipient))
		switch {
		case err != nil:
			outcome.Error = err.Error()
			result.FailureCount++
			runLog.WithError(err).WithField("client_id", recipient.ClientID).Error("Failed to send notification")
		case !res.OK:
			outcome.Error = res.Body
			result.FailureCount++
			runLog.WithFields(log.Fields{
				"client_id": recipient.ClientID,
				"reason":    res.Body,
			}).Error("Provider rejected notification")
		default:
			outcome.OK = true
			outcome.MessageID = res.MessageID
			result.SuccessCount++
			if d.delay > 0 && i < len(recipients)-1 {
				d.sleep(d.delay)
			}
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.FinishedAt = time.Now().UTC()
	runLog.WithFields(log.Fields{
		"success": result.SuccessCount,
		"failure": result.FailureCount,
	}).Info("Notification campaign finished")
	return result
}

func (d *Dispatcher) renderMessage(recipient models.Recipient) string {
	return fmt.Sprintf(
		"Dear %s, one or more of your air conditioners is due for maintenance. Review your schedule: %s/%s",
		recipient.Name, d.profileURL, recipient.ProfileSlug,
	)
}
