package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/app/structured"
	"github.com/PabloGalante/rajbari-portal/internal/bangla"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
	"github.com/PabloGalante/rajbari-portal/internal/observability"
)

const (
	liveDataInstruction = "আপনি রাজবাড়ী জেলার লাইভ ডাটা অ্যাসিস্ট্যান্ট। কেবল JSON রিটার্ন করুন।"
	newsInstruction     = "আপনি একজন সোশ্যাল মিডিয়া রিপোর্টার। ফেসবুক পোস্ট ও গুগল সার্চ ব্যবহার করে রাজবাড়ীর লাইভ আপডেট দিন। কেবল JSON ফরম্যাটে উত্তর দিন।"
	mapInstruction      = "আপনি একজন ম্যাপ স্পেশালিস্ট। কেবল JSON রিটার্ন করুন।"

	newsPrompt = "রাজবাড়ী জেলার বিভিন্ন ফেসবুক গ্রুপ ও নিউজ পেজ থেকে আজকের সর্বশেষ ৫টি গুরুত্বপূর্ণ খবরের হেডলাইন বের করুন। ফিল্ড: title, source, time, link। পুরনো কোনো তথ্য দেবেন না।"
)

// Listing is what a category screen shows. Mode is empty when the items
// come only from the bundled data and no provider call was made.
type Listing struct {
	Category domain.Category     `json:"category"`
	Items    []Item              `json:"items"`
	Mode     domain.ResponseMode `json:"mode,omitempty"`
	Notice   string              `json:"notice,omitempty"`
	Sources  []domain.Source     `json:"sources,omitempty"`
	Cached   bool                `json:"cached,omitempty"`
}

type NewsFeed struct {
	Headlines []Headline          `json:"headlines"`
	Mode      domain.ResponseMode `json:"mode"`
	Notice    string              `json:"notice,omitempty"`
	Sources   []domain.Source     `json:"sources,omitempty"`
	FetchedAt time.Time           `json:"fetchedAt"`
}

type PlaceResults struct {
	Query  string              `json:"query"`
	Places []Place             `json:"places"`
	Mode   domain.ResponseMode `json:"mode"`
	Notice string              `json:"notice,omitempty"`
}

// Service serves bundled district data and enriches it with live answers.
type Service struct {
	gateway domain.Gateway
	cache   domain.DayCache
	data    *bundle
	now     func() time.Time

	newsMu sync.RWMutex
	news   *NewsFeed
}

func NewService(gateway domain.Gateway, cache domain.DayCache) (*Service, error) {
	data, err := loadBundle()
	if err != nil {
		return nil, fmt.Errorf("loading bundled data: %w", err)
	}
	return &Service{
		gateway: gateway,
		cache:   cache,
		data:    data,
		now:     time.Now,
	}, nil
}

// Trains returns the bundled timetable.
func (s *Service) Trains() []domain.Train {
	out := make([]domain.Train, len(s.data.trains))
	copy(out, s.data.trains)
	return out
}

func (s *Service) Train(id string) (domain.Train, error) {
	for _, t := range s.data.trains {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Train{}, domain.ErrTrainNotFound
}

func (s *Service) staticItems(category domain.Category) []Item {
	if category == domain.CategoryTrains {
		return trainItems(s.data.trains)
	}
	items := s.data.categories[category]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// needsLive reports whether a category is fetched from the provider.
func needsLive(category domain.Category, static []Item) bool {
	return category == domain.CategoryMarketPrice || len(static) == 0
}

// Fetch returns the listing for a category. Market prices and categories
// without bundled items are asked from the provider; market prices are
// cached until the end of the Dhaka day unless refresh is set.
func (s *Service) Fetch(ctx context.Context, category domain.Category, refresh bool) (*Listing, error) {
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"category", category,
		"refresh", refresh,
	)

	static := s.staticItems(category)
	listing := &Listing{Category: category, Items: static}
	if !needsLive(category, static) {
		log.Debug("serving bundled category")
		return listing, nil
	}

	now := s.now().In(bangla.Dhaka())
	key := dayKey(category, now)
	cacheable := category == domain.CategoryMarketPrice && s.cache != nil

	if cacheable && !refresh {
		if items, ok := s.cached(ctx, key); ok {
			log.Info("serving cached category", "cache_key", key)
			listing.Items = items
			listing.Mode = domain.ModeLiveSearch
			listing.Cached = true
			return listing, nil
		}
	}

	res := s.gateway.Call(ctx, domain.Request{
		Prompt:            categoryPrompt(category),
		SystemInstruction: liveDataInstruction,
		UseSearch:         true,
		Category:          category,
	})
	if res.Failed() {
		observability.FallbacksTotal.WithLabelValues("category", string(res.Error)).Inc()
		log.Warn("category fell back to bundled data", "error_code", res.Error)
		listing.Mode = domain.ModeFallback
		listing.Notice = domain.ExplainError(res.Error)
		return listing, nil
	}

	items, ok := structured.ExtractList[Item](res.TextOrEmpty())
	if !ok {
		observability.FallbacksTotal.WithLabelValues("category", string(domain.ErrCodeParseFailure)).Inc()
		log.Warn("category reply had no usable list")
		listing.Mode = domain.ModeFallback
		listing.Notice = domain.ExplainError(domain.ErrCodeParseFailure)
		return listing, nil
	}

	for i, item := range items {
		if item == nil {
			item = Item{}
			items[i] = item
		}
		if _, has := item["id"]; !has {
			item["id"] = fmt.Sprintf("ai-%d", i)
		}
		item["isAI"] = true
	}

	listing.Items = items
	listing.Mode = res.Mode
	listing.Sources = res.Sources

	if cacheable {
		s.store(ctx, key, items, endOfDay(now))
	}

	log.Info("category fetched live", "items", len(items), "mode", res.Mode)
	return listing, nil
}

func (s *Service) cached(ctx context.Context, key string) ([]Item, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn("day cache read failed", "cache_key", key, "error", err)
		}
		return nil, false
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}
	return items, true
}

func (s *Service) store(ctx context.Context, key string, items []Item, expiresAt time.Time) {
	raw, err := json.Marshal(items)
	if err == nil {
		err = s.cache.Set(ctx, key, raw, expiresAt)
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("day cache write failed", "cache_key", key, "error", err)
	}
}

// dayKey is "category:YYYY-MM-DD" for the given Dhaka-local time.
func dayKey(category domain.Category, local time.Time) string {
	return fmt.Sprintf("%s:%s", category, local.Format("2006-01-02"))
}

func endOfDay(local time.Time) time.Time {
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, local.Location())
}

func categoryPrompt(category domain.Category) string {
	subject := "সবশেষ তথ্য"
	switch category {
	case domain.CategoryMarketPrice:
		subject = "বাজারদর (ফিল্ড: name, unit, priceRange, trend)"
	case domain.CategoryNotices:
		subject = "সরকারি নোটিশ (ফিল্ড: title, date, summary, priority)"
	case domain.CategoryJobs:
		subject = "চাকরির বিজ্ঞপ্তি (ফিল্ড: title, org, deadline, salary, link)"
	}
	return fmt.Sprintf("রাজবাড়ী জেলার আজকের %s বের করুন এবং JSON অ্যারে হিসেবে দিন।", subject)
}

// Headlines asks the provider for the latest district headlines. Any
// failure yields the bundled headlines with an explanatory notice.
func (s *Service) Headlines(ctx context.Context) *NewsFeed {
	log := observability.LoggerFromContext(ctx)
	feed := &NewsFeed{FetchedAt: s.now()}

	res := s.gateway.Call(ctx, domain.Request{
		Prompt:            newsPrompt,
		SystemInstruction: newsInstruction,
		UseSearch:         true,
	})

	code := res.Error
	if !res.Failed() {
		if parsed, ok := structured.ExtractList[Headline](res.TextOrEmpty()); ok {
			headlines := make([]Headline, 0, len(parsed))
			for _, h := range parsed {
				if strings.TrimSpace(h.Title) != "" {
					headlines = append(headlines, h)
				}
			}
			if len(headlines) > 0 {
				feed.Headlines = headlines
				feed.Mode = res.Mode
				feed.Sources = res.Sources
				log.Info("headlines fetched live", "count", len(headlines))
				return feed
			}
		}
		code = domain.ErrCodeParseFailure
	}

	observability.FallbacksTotal.WithLabelValues("news", string(code)).Inc()
	log.Warn("headlines fell back to bundled data", "error_code", code)

	feed.Headlines = append([]Headline(nil), s.data.headlines...)
	feed.Mode = domain.ModeFallback
	feed.Notice = "সিস্টেম নোট: " + domain.ExplainError(code)
	return feed
}

// RefreshHeadlines fetches headlines and keeps them for CurrentHeadlines.
func (s *Service) RefreshHeadlines(ctx context.Context) *NewsFeed {
	feed := s.Headlines(ctx)
	s.newsMu.Lock()
	s.news = feed
	s.newsMu.Unlock()
	return feed
}

// CurrentHeadlines returns the last refreshed feed, fetching one if none
// exists yet.
func (s *Service) CurrentHeadlines(ctx context.Context) *NewsFeed {
	s.newsMu.RLock()
	feed := s.news
	s.newsMu.RUnlock()
	if feed != nil {
		return feed
	}
	return s.RefreshHeadlines(ctx)
}

// SearchPlaces returns the bundled map places plus the places the provider
// locates for query.
func (s *Service) SearchPlaces(ctx context.Context, query string) (*PlaceResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	log := observability.LoggerFromContext(ctx).With("query", query)
	out := &PlaceResults{
		Query:  query,
		Places: append([]Place(nil), s.data.places...),
	}

	res := s.gateway.Call(ctx, domain.Request{
		Prompt:            fmt.Sprintf("রাজবাড়ী জেলার %q এর ভৌগোলিক স্থানাঙ্ক (Lat, Lng) বের করুন। উত্তরটি JSON অ্যারেতে দিন। ফিল্ড: name, lat, lng, category।", query),
		SystemInstruction: mapInstruction,
	})
	if res.Failed() {
		observability.FallbacksTotal.WithLabelValues("map", string(res.Error)).Inc()
		log.Warn("place search fell back to bundled places", "error_code", res.Error)
		out.Mode = domain.ModeFallback
		out.Notice = domain.ExplainError(res.Error)
		return out, nil
	}

	found, ok := structured.ExtractList[Place](res.TextOrEmpty())
	if !ok {
		log.Info("place search found nothing")
		out.Mode = res.Mode
		return out, nil
	}

	n := 0
	for _, p := range found {
		if p.Name == "" || (p.Lat == 0 && p.Lng == 0) {
			continue
		}
		p.ID = fmt.Sprintf("ai-%d", n)
		p.IsAI = true
		out.Places = append(out.Places, p)
		n++
	}
	out.Mode = res.Mode

	log.Info("place search completed", "ai_places", n)
	return out, nil
}
