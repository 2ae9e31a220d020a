package navigation_test

import (
	"testing"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/app/navigation"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

func apply(s navigation.State, events ...navigation.Event) navigation.State {
	for _, ev := range events {
		s = navigation.Next(s, ev)
	}
	return s
}

func ev(kind navigation.EventKind) navigation.Event {
	return navigation.Event{Kind: kind}
}

func TestBasicTransitions(t *testing.T) {
	tests := []struct {
		name   string
		events []navigation.Event
		want   navigation.Screen
	}{
		{"open category", []navigation.Event{{Kind: navigation.EventOpenCategory, Category: domain.CategoryTrains}}, navigation.ScreenCategory},
		{"open map", []navigation.Event{ev(navigation.EventOpenMap)}, navigation.ScreenMap},
		{"open chat then home", []navigation.Event{ev(navigation.EventOpenChat), ev(navigation.EventGoHome)}, navigation.ScreenHome},
		{"admin tap opens login", []navigation.Event{ev(navigation.EventAdminTap)}, navigation.ScreenAdminLogin},
		{"login success", []navigation.Event{ev(navigation.EventAdminTap), ev(navigation.EventLoginSuccess)}, navigation.ScreenAdminPanel},
		{"login cancel", []navigation.Event{ev(navigation.EventAdminTap), ev(navigation.EventLoginCancel)}, navigation.ScreenHome},
		{"login success ignored outside login", []navigation.Event{ev(navigation.EventLoginSuccess)}, navigation.ScreenHome},
		{"home ignored on login screen", []navigation.Event{ev(navigation.EventAdminTap), ev(navigation.EventGoHome)}, navigation.ScreenAdminLogin},
		{"logout", []navigation.Event{ev(navigation.EventAdminTap), ev(navigation.EventLoginSuccess), ev(navigation.EventLogout)}, navigation.ScreenHome},
		{"admin tap while admin logs out", []navigation.Event{ev(navigation.EventAdminTap), ev(navigation.EventLoginSuccess), ev(navigation.EventAdminTap)}, navigation.ScreenHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(navigation.Initial(), tt.events...)
			if got.Screen != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got.Screen)
			}
		})
	}
}

func TestCancelReturnsToCategory(t *testing.T) {
	s := apply(navigation.Initial(),
		navigation.Event{Kind: navigation.EventOpenCategory, Category: domain.CategoryDoctors},
		ev(navigation.EventAdminTap),
		ev(navigation.EventLoginCancel),
	)
	if s.Screen != navigation.ScreenCategory || s.Category != domain.CategoryDoctors {
		t.Fatalf("expected to return to doctors, got %+v", s)
	}
}

func TestAdminFlagFollowsSession(t *testing.T) {
	s := apply(navigation.Initial(), ev(navigation.EventAdminTap), ev(navigation.EventLoginSuccess))
	if !s.Admin {
		t.Fatalf("expected admin after login")
	}
	s = navigation.Next(s, navigation.Event{Kind: navigation.EventOpenCategory, Category: domain.CategoryJobs})
	if s.Admin {
		t.Fatalf("leaving the panel should end the admin session")
	}
}

func TestTitleTaps(t *testing.T) {
	base := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	tap := func(offset time.Duration) navigation.Event {
		return navigation.Event{Kind: navigation.EventTitleTap, At: base.Add(offset)}
	}

	s := navigation.Initial()
	for i := 0; i < navigation.TitleTapsForLogin-1; i++ {
		s = navigation.Next(s, tap(time.Duration(i)*500*time.Millisecond))
	}
	if s.Screen != navigation.ScreenHome {
		t.Fatalf("login opened too early")
	}
	s = navigation.Next(s, tap(2*time.Second))
	if s.Screen != navigation.ScreenAdminLogin {
		t.Fatalf("expected login after %d quick taps, got %q", navigation.TitleTapsForLogin, s.Screen)
	}
	if s.TitleTaps != 0 {
		t.Fatalf("tap counter should reset, got %d", s.TitleTaps)
	}
}

func TestTitleTapsResetAfterPause(t *testing.T) {
	base := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	s := navigation.Initial()
	for i := 0; i < 4; i++ {
		s = navigation.Next(s, navigation.Event{Kind: navigation.EventTitleTap, At: base.Add(time.Duration(i) * 100 * time.Millisecond)})
	}
	s = navigation.Next(s, navigation.Event{Kind: navigation.EventTitleTap, At: base.Add(10 * time.Second)})

	if s.Screen != navigation.ScreenHome || s.TitleTaps != 1 {
		t.Fatalf("expected counter restart after a pause, got %+v", s)
	}
}
