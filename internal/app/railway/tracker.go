package railway

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/domain"
	"github.com/PabloGalante/rajbari-portal/internal/observability"
)

const trackingInstruction = "আপনি রাজবাড়ী জেলার একজন ডিজিটাল রেলওয়ে অ্যাসিস্ট্যান্ট। ফেসবুকের লোকাল ট্রেন গ্রুপ ও ওয়েবের সর্বশেষ তথ্য ব্যবহার করে ট্রেনের বর্তমান অবস্থান বলুন। উত্তরে স্টেশনের নাম স্পষ্টভাবে উল্লেখ করুন।"

// TrainLookup resolves static train records.
type TrainLookup interface {
	Train(id string) (domain.Train, error)
}

// Tracking is the rendered outcome of one live-position lookup.
type Tracking struct {
	Train          domain.Train
	Inference      domain.AIInference
	CurrentStation string
	StationKnown   bool
	Mode           domain.ResponseMode
	Notice         string
	Sources        []domain.Source
}

// Tracker asks the gateway where a train is and falls back to the
// timetable estimate when the provider is unavailable.
type Tracker struct {
	gateway   domain.Gateway
	trains    TrainLookup
	estimator *Estimator
	now       func() time.Time
}

func NewTracker(gateway domain.Gateway, trains TrainLookup, estimator *Estimator) *Tracker {
	return &Tracker{
		gateway:   gateway,
		trains:    trains,
		estimator: estimator,
		now:       time.Now,
	}
}

// Track looks up the current position of a train.
func (t *Tracker) Track(ctx context.Context, trainID string) (*Tracking, error) {
	train, err := t.trains.Train(trainID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"train_id", train.ID,
		"train", train.Name,
	)
	log.Info("tracking train")

	res := t.gateway.Call(ctx, domain.Request{
		Prompt:            trackingPrompt(train),
		SystemInstruction: trackingInstruction,
		UseSearch:         true,
	})

	if res.Failed() {
		est := t.estimator.Estimate(train, t.now(), res.Error)
		observability.FallbacksTotal.WithLabelValues("train_tracking", string(res.Error)).Inc()
		log.Warn("live tracking unavailable, using schedule estimate",
			"error_code", res.Error,
			"station", est.Station,
			"index", est.Index)

		return &Tracking{
			Train: train,
			Inference: domain.AIInference{
				Reason:     est.Message,
				Confidence: est.Confidence,
				IsAI:       false,
			},
			CurrentStation: est.Station,
			StationKnown:   est.Station != "",
			Mode:           domain.ModeFallback,
			Notice:         domain.ExplainError(res.Error),
		}, nil
	}

	text := res.TextOrEmpty()
	station, found := MatchStation(text, train.DetailedRoute)
	log.Info("live tracking answered", "mode", res.Mode, "station_found", found, "station", station)

	return &Tracking{
		Train: train,
		Inference: domain.AIInference{
			Reason:     text,
			Confidence: 1.0,
			IsAI:       true,
		},
		CurrentStation: station,
		StationKnown:   found,
		Mode:           res.Mode,
		Sources:        res.Sources,
	}, nil
}

func trackingPrompt(train domain.Train) string {
	return fmt.Sprintf(
		"ট্রেনের নাম: %s। রুট: %s। স্টেশনসমূহ: %s। নির্ধারিত ছাড়ার সময়: %s। "+
			"ফেসবুকের \"Rajbari Train Tracking Group\" বা \"বাংলাদেশ রেলওয়ে\" গ্রুপ থেকে আজকের সর্বশেষ অবস্থান বের করুন এবং বাংলায় ব্যাখ্যা করুন।",
		train.Name, train.Route, train.DetailedRoute, train.Departure,
	)
}
