package rlog

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// dateLayouts are the formats cvs has used for the date of a revision, oldest first.
// Layouts without a zone are UTC.
var dateLayouts = []string{
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 Z0700",
	"2006-01-02 15:04:05",
}

func parseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, errors.Wrapf(ErrMalformedTimestamp, "%q", text)
}
