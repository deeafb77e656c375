package ui

import (
	"context"
	"errors"
	"time"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/favorite"
)

// noticeDuration is how long a one-shot notice stays in the status bar.
const noticeDuration = 4 * time.Second

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// notice is a transient status bar message.
type notice struct {
	text  string
	kind  noticeKind
	until time.Time
}

func (n notice) active(now time.Time) bool {
	return n.text != "" && now.Before(n.until)
}

func (m *Model) notify(kind noticeKind, text string) {
	m.notice = notice{text: text, kind: kind, until: time.Now().Add(noticeDuration)}
}

// favoriteNotice picks the status text for a finished toggle. ok is false
// when nothing should be shown.
func favoriteNotice(out favorite.Outcome, err error) (noticeKind, string, bool) {
	switch {
	case err == nil && out.Op == favorite.OpAdd:
		return noticeSuccess, "Added to favorites", true
	case err == nil:
		return noticeSuccess, "Removed from favorites", true
	case errors.Is(err, catalog.ErrAuthRequired):
		return noticeInfo, "Sign in to save favorites", true
	case errors.Is(err, context.Canceled):
		return 0, "", false
	default:
		return noticeError, "Could not update favorite: " + err.Error(), true
	}
}
