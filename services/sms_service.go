package services

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
	twilio "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	appConfig "github.com/julienmoreau/chantier-api/config"
)

// SMSResult is the uniform outcome of one delivery attempt, regardless of
// which provider (or none) handled it
type SMSResult struct {
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated,omitempty"`
	Provider  string `json:"provider,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SMSInterface defines the interface for SMS delivery.
// A provider failure is reported through the result, never as a panic or
// an error return: message dispatch decides what to do with it.
type SMSInterface interface {
	SendSMS(ctx context.Context, to, text string) SMSResult
}

var smsServiceInstance SMSInterface

// providerCallTimeout bounds every provider call so a hanging provider
// cannot hold the dispatch transaction open indefinitely
const providerCallTimeout = 10 * time.Second

// InitSMSService selects and constructs the SMS gateway from configuration.
// The provider is chosen exactly once at startup; an unknown provider name
// falls back to simulated delivery with a warning instead of failing, so a
// misconfigured SMS channel never blocks message dispatch.
func InitSMSService(cfg *appConfig.Config) SMSInterface {
	if !cfg.SMSEnabled {
		log.Println("SMS delivery disabled, using simulated provider")
		smsServiceInstance = &DisabledSMSService{}
		return smsServiceInstance
	}

	switch cfg.SMSProvider {
	case "twilio":
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		client.SetTimeout(providerCallTimeout)
		smsServiceInstance = &TwilioSMSService{
			client: client,
			from:   cfg.TwilioPhoneNumber,
		}

	case "sns":
		awsConfig, err := config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.AWSRegion),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AWSAccessKeyID,
				cfg.AWSSecretAccessKey,
				"",
			)),
		)
		if err != nil {
			log.Printf("Warning: failed to load AWS config (%v), falling back to simulated delivery", err)
			smsServiceInstance = &DisabledSMSService{}
			break
		}
		smsServiceInstance = &SNSSMSService{
			client:   sns.NewFromConfig(awsConfig),
			senderID: cfg.AWSSNSSenderID,
		}

	default:
		log.Printf("Warning: unknown SMS provider %q, falling back to simulated delivery", cfg.SMSProvider)
		smsServiceInstance = &DisabledSMSService{}
	}

	return smsServiceInstance
}

// GetSMSService returns the initialized SMS gateway instance
func GetSMSService() SMSInterface {
	return smsServiceInstance
}

// SetSMSService sets the SMS gateway instance (primarily for testing)
func SetSMSService(service SMSInterface) {
	smsServiceInstance = service
}

// TwilioSMSService delivers SMS through the Twilio messages API
type TwilioSMSService struct {
	client *twilio.RestClient
	from   string
}

// SendSMS sends one SMS through Twilio. Provider errors are captured in
// the result; the HTTP call is bounded by the client timeout set at
// construction.
func (s *TwilioSMSService) SendSMS(ctx context.Context, to, text string) SMSResult {
	if err := ctx.Err(); err != nil {
		return SMSResult{Success: false, Provider: "twilio", Error: err.Error()}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(text)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Twilio send to %s failed: %v", to, err)
		return SMSResult{Success: false, Provider: "twilio", Error: err.Error()}
	}

	result := SMSResult{Success: true, Provider: "twilio"}
	if resp.Sid != nil {
		result.MessageID = *resp.Sid
	}
	return result
}

// SNSSMSService delivers SMS through AWS SNS direct publish
type SNSSMSService struct {
	client   *sns.Client
	senderID string
}

// SendSMS publishes one SMS through SNS with a bounded timeout
func (s *SNSSMSService) SendSMS(ctx context.Context, to, text string) SMSResult {
	ctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(text),
	}
	if s.senderID != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.senderID),
			},
		}
	}

	resp, err := s.client.Publish(ctx, input)
	if err != nil {
		log.Printf("SNS publish to %s failed: %v", to, err)
		return SMSResult{Success: false, Provider: "sns", Error: err.Error()}
	}

	return SMSResult{
		Success:   true,
		Provider:  "sns",
		MessageID: aws.ToString(resp.MessageId),
	}
}

// DisabledSMSService simulates delivery without any network access.
// It serves both the explicitly disabled state and the fallback for
// unrecognized provider configuration.
type DisabledSMSService struct{}

// SendSMS logs the would-be delivery and reports a simulated success
func (s *DisabledSMSService) SendSMS(ctx context.Context, to, text string) SMSResult {
	log.Printf("SMS disabled, simulating delivery to %s: %s", to, text)
	return SMSResult{
		Success:   true,
		Simulated: true,
		MessageID: "mock-" + uuid.NewString(),
	}
}
