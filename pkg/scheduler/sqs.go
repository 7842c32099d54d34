package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// TransitionMessage is the SQS message body for a deferred transition.
type TransitionMessage struct {
	TransactionID string                   `json:"transaction_id"`
	Status        models.TransactionStatus `json:"status"`
}

// SQSAPI is the subset of the SQS client used by the scheduler, extracted
// for mocking.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSScheduler implements the Scheduler interface using AWS SQS delayed
// messages, consumed by cmd/settlement_lambda.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// ScheduleTransition enqueues the transition with an SQS delivery delay.
// SQS caps DelaySeconds at 900.
func (s *SQSScheduler) ScheduleTransition(ctx context.Context, txID string, status models.TransactionStatus, delaySeconds int32) error {
	if delaySeconds > 900 {
		delaySeconds = 900
	}

	body, err := json.Marshal(TransitionMessage{TransactionID: txID, Status: status})
	if err != nil {
		return fmt.Errorf("failed to marshal transition message: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(s.QueueURL),
		MessageBody:  aws.String(string(body)),
		DelaySeconds: delaySeconds,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
