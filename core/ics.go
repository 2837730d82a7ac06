package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	ICSProductID = "-//culture-events//Events Calendar//KO"
	ICSTimezone  = "Asia/Seoul"
)

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

// WriteICS writes events as all-day VEVENTs. DTEND is exclusive, so it is the day after dateEnd.
// Events whose dates do not parse are skipped.
func WriteICS(w io.Writer, query Query, events []Event, stamp time.Time) error {
	bw := bufio.NewWriter(w)

	line := func(format string, args ...any) {
		fmt.Fprintf(bw, format+"\r\n", args...)
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", ICSProductID)
	line("X-WR-CALNAME:%s %04d-%02d", query.Category, query.Year, query.Month+1)
	line("X-WR-TIMEZONE:%s", ICSTimezone)
	line("CALSCALE:GREGORIAN")

	for _, event := range events {
		start, end := event.Span()
		if start.IsZero() {
			continue
		}

		line("BEGIN:VEVENT")
		line("UID:%s-%s@culture-events", event.Id, start.Format("20060102"))
		line("DTSTAMP:%s", stamp.UTC().Format("20060102T150405Z"))
		line("DTSTART;VALUE=DATE:%s", start.Format("20060102"))
		line("DTEND;VALUE=DATE:%s", end.AddDate(0, 0, 1).Format("20060102"))
		line("SUMMARY:%s", icsEscaper.Replace(event.Title))
		line("DESCRIPTION:%s", icsEscaper.Replace(event.Description))
		line("LOCATION:%s", icsEscaper.Replace(event.Location))
		line("CATEGORIES:%s", event.Category)

		if event.Coordinates != nil {
			line("GEO:%f;%f", event.Coordinates.Lat, event.Coordinates.Lng)
		}

		line("END:VEVENT")
	}

	line("END:VCALENDAR")

	return bw.Flush()
}
