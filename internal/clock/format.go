package clock

import (
	"fmt"
	"strings"
	"time"
)

// Format renders t with the layout tokens YYYY, MM, DD, HH, mm, ss and SSS.
// Everything else in layout is copied verbatim.
func Format(t time.Time, layout string) string {
	r := strings.NewReplacer(
		"YYYY", fmt.Sprintf("%04d", t.Year()),
		"SSS", fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond)),
		"MM", fmt.Sprintf("%02d", int(t.Month())),
		"DD", fmt.Sprintf("%02d", t.Day()),
		"HH", fmt.Sprintf("%02d", t.Hour()),
		"mm", fmt.Sprintf("%02d", t.Minute()),
		"ss", fmt.Sprintf("%02d", t.Second()),
	)
	return r.Replace(layout)
}
