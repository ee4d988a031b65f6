package services

import (
	"context"
	"fmt"

	recaptcha "cloud.google.com/go/recaptchaenterprise/v2/apiv1"
	"cloud.google.com/go/recaptchaenterprise/v2/apiv1/recaptchaenterprisepb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const MinCaptchaScore = 0.5

// CaptchaEvent is what the client sent with a sign-up or sign-in form.
type CaptchaEvent struct {
	Token     string
	Action    string
	UserIP    string
	UserAgent string
}

// CaptchaVerifier returns ErrCaptchaRejected for tokens that fail assessment.
type CaptchaVerifier interface {
	Verify(ctx context.Context, ev CaptchaEvent) error
}

type AssessmentResult struct {
	Score   float32
	Action  string
	Reasons []string
}

type RecaptchaVerifier struct {
	client    *recaptcha.Client
	projectID string
	siteKey   string
	log       *zap.Logger
}

func NewRecaptchaVerifier(ctx context.Context, projectID, siteKey, credentialsPath string, log *zap.Logger) (*RecaptchaVerifier, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := recaptcha.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create reCAPTCHA client: %w", err)
	}
	return &RecaptchaVerifier{client: client, projectID: projectID, siteKey: siteKey, log: log.Named("captcha")}, nil
}

func (v *RecaptchaVerifier) Close() error { return v.client.Close() }

func (v *RecaptchaVerifier) Verify(ctx context.Context, ev CaptchaEvent) error {
	if ev.Token == "" {
		return ErrCaptchaRejected
	}
	result, err := v.createAssessment(ctx, ev)
	if err != nil {
		return backendError(v.log, "Could not verify reCAPTCHA. Please try again.", err)
	}
	if result == nil || result.Score < MinCaptchaScore {
		if result != nil {
			v.log.Info("low reCAPTCHA score", zap.Float32("score", result.Score), zap.Strings("reasons", result.Reasons))
		}
		return ErrCaptchaRejected
	}
	return nil
}

// createAssessment returns nil without error when the token is invalid or
// was issued for another action.
func (v *RecaptchaVerifier) createAssessment(ctx context.Context, ev CaptchaEvent) (*AssessmentResult, error) {
	req := &recaptchaenterprisepb.CreateAssessmentRequest{
		Parent: fmt.Sprintf("projects/%s", v.projectID),
		Assessment: &recaptchaenterprisepb.Assessment{
			Event: &recaptchaenterprisepb.Event{
				Token:         ev.Token,
				SiteKey:       v.siteKey,
				UserIpAddress: ev.UserIP,
				UserAgent:     ev.UserAgent,
			},
		},
	}
	response, err := v.client.CreateAssessment(ctx, req)
	if err != nil {
		return nil, err
	}

	props := response.TokenProperties
	if props == nil || !props.Valid {
		if props != nil {
			v.log.Info("invalid reCAPTCHA token", zap.String("reason", props.InvalidReason.String()))
		}
		return nil, nil
	}
	if ev.Action != "" && props.Action != ev.Action {
		v.log.Info("reCAPTCHA action mismatch", zap.String("expected", ev.Action), zap.String("got", props.Action))
		return nil, nil
	}

	result := &AssessmentResult{Action: props.Action}
	if response.RiskAnalysis != nil {
		result.Score = response.RiskAnalysis.Score
		for _, reason := range response.RiskAnalysis.Reasons {
			result.Reasons = append(result.Reasons, reason.String())
		}
	}
	return result, nil
}
