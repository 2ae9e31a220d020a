// Package navigation models which screen the portal shows. Transitions are
// a pure function of the current state and an event.
package navigation

import (
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

type Screen string

const (
	ScreenHome       Screen = "home"
	ScreenCategory   Screen = "category"
	ScreenMap        Screen = "map"
	ScreenChat       Screen = "chat"
	ScreenAdminLogin Screen = "admin_login"
	ScreenAdminPanel Screen = "admin_panel"
)

const (
	// TitleTapsForLogin is how many quick title taps open the login screen.
	TitleTapsForLogin = 5
	// TitleTapWindow resets the tap counter after this much inactivity.
	TitleTapWindow = 2 * time.Second
)

type EventKind string

const (
	EventOpenCategory EventKind = "open_category"
	EventOpenMap      EventKind = "open_map"
	EventOpenChat     EventKind = "open_chat"
	EventGoHome       EventKind = "go_home"
	EventAdminTap     EventKind = "admin_tap"
	EventTitleTap     EventKind = "title_tap"
	EventLoginSuccess EventKind = "login_success"
	EventLoginCancel  EventKind = "login_cancel"
	EventLogout       EventKind = "logout"
)

type Event struct {
	Kind     EventKind       `json:"kind"`
	Category domain.Category `json:"category,omitempty"` // for EventOpenCategory
	At       time.Time       `json:"at"`                 // for EventTitleTap
}

// State is the whole navigation state. The zero value is the home screen.
type State struct {
	Screen       Screen          `json:"screen"`
	Category     domain.Category `json:"category,omitempty"`
	Admin        bool            `json:"admin"`
	TitleTaps    int             `json:"titleTaps"`
	LastTitleTap time.Time       `json:"lastTitleTap"`
}

func Initial() State {
	return State{Screen: ScreenHome}
}

// Next returns the state after ev. Events that make no sense on the
// current screen leave the state unchanged.
func Next(s State, ev Event) State {
	if s.Screen == "" {
		s.Screen = ScreenHome
	}

	switch ev.Kind {
	case EventOpenCategory:
		if s.Screen == ScreenAdminLogin || ev.Category == "" {
			return s
		}
		s.Screen, s.Category, s.Admin = ScreenCategory, ev.Category, false
	case EventOpenMap:
		if s.Screen == ScreenAdminLogin {
			return s
		}
		s.Screen, s.Category, s.Admin = ScreenMap, "", false
	case EventOpenChat:
		if s.Screen == ScreenAdminLogin {
			return s
		}
		s.Screen, s.Category, s.Admin = ScreenChat, "", false
	case EventGoHome:
		if s.Screen == ScreenAdminLogin {
			return s
		}
		s.Screen, s.Category, s.Admin = ScreenHome, "", false
	case EventAdminTap:
		if s.Admin {
			s.Screen, s.Admin = ScreenHome, false
			return s
		}
		s.Screen = ScreenAdminLogin
	case EventTitleTap:
		if !s.LastTitleTap.IsZero() && ev.At.Sub(s.LastTitleTap) > TitleTapWindow {
			s.TitleTaps = 0
		}
		s.TitleTaps++
		s.LastTitleTap = ev.At
		if s.TitleTaps >= TitleTapsForLogin {
			s.TitleTaps, s.LastTitleTap = 0, time.Time{}
			if !s.Admin {
				s.Screen = ScreenAdminLogin
			}
		}
	case EventLoginSuccess:
		if s.Screen != ScreenAdminLogin {
			return s
		}
		s.Screen, s.Admin, s.Category = ScreenAdminPanel, true, ""
	case EventLoginCancel:
		if s.Screen != ScreenAdminLogin {
			return s
		}
		s.Screen = ScreenHome
		if s.Category != "" {
			s.Screen = ScreenCategory
		}
	case EventLogout:
		if !s.Admin {
			return s
		}
		s.Screen, s.Admin = ScreenHome, false
	}
	return s
}
