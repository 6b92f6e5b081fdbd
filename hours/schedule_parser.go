package hours

import (
	"regexp"
	"strconv"
	"strings"
)

// Day tokens resolved from a day expression. dayAll stands for "daily".
const (
	dayNone = -1
	dayAll  = 7
)

var (
	untilPattern = regexp.MustCompile(`(?i)^([^0-9]+?)\s*(?:tot|until)\s*(\d{1,2}[:.]\d{2})`)
	rangePattern = regexp.MustCompile(`(?i)^([^0-9]+?)\s*(\d{1,2}[:.]\d{2})\s*[–-]\s*(\d{1,2}[:.]\d{2})`)

	listWordPattern   = regexp.MustCompile(`(?i)\b(?:and|en)\b`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// dayPrefixes is checked in order; English names win over the Dutch
// two-letter abbreviations so that "sun" is never read as "su...".
var dayPrefixes = []struct {
	prefix string
	day    int
}{
	{"daily", dayAll},
	{"every", dayAll},
	{"mon", Monday},
	{"tue", Tuesday},
	{"wed", Wednesday},
	{"thu", Thursday},
	{"fri", Friday},
	{"sat", Saturday},
	{"sun", Sunday},
	{"ma", Monday},
	{"di", Tuesday},
	{"wo", Wednesday},
	{"do", Thursday},
	{"vr", Friday},
	{"za", Saturday},
	{"zo", Sunday},
}

type dayInterval struct {
	day   int
	open  int
	close int
}

// ParseSchedule turns a free-form opening hours string such as
// "Ma-Vr 10:00-17:00, Za-Zo 11:00-18:00" into a weekly schedule.
// It returns nil when the text is empty or no segment yields a valid
// day/open/close triple. Segments it cannot read are skipped.
func ParseSchedule(text string) *WeeklySchedule {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	segments := splitSegments(text)
	if len(segments) == 0 {
		return nil
	}

	var schedule WeeklySchedule
	var defaultOpen *int
	found := false

	for _, segment := range segments {
		resolved := parseSegment(segment, defaultOpen)
		if len(resolved) == 0 {
			continue
		}
		if defaultOpen == nil {
			open := resolved[0].open
			defaultOpen = &open
		}
		for _, r := range resolved {
			schedule.merge(r.day, r.open, r.close)
		}
		found = true
	}

	if !found {
		return nil
	}
	return &schedule
}

// splitSegments flattens parenthesized groups into plain separators and
// splits the remainder on commas.
func splitSegments(text string) []string {
	flattened := strings.NewReplacer("(", "|", ")", "|").Replace(text)
	var segments []string
	for _, part := range strings.Split(flattened, "|") {
		for _, segment := range strings.Split(part, ",") {
			if trimmed := strings.TrimSpace(segment); trimmed != "" {
				segments = append(segments, trimmed)
			}
		}
	}
	return segments
}

func parseSegment(segment string, fallbackOpen *int) []dayInterval {
	if m := untilPattern.FindStringSubmatch(segment); m != nil {
		closeAt, ok := parseClock(m[2])
		if !ok {
			return nil
		}
		openAt := 0
		if fallbackOpen != nil {
			openAt = *fallbackOpen
		}
		return intervalsFor(parseDayExpression(m[1]), openAt, closeAt)
	}

	if m := rangePattern.FindStringSubmatch(segment); m != nil {
		openAt, ok := parseClock(m[2])
		if !ok {
			return nil
		}
		closeAt, ok := parseClock(m[3])
		if !ok {
			return nil
		}
		return intervalsFor(parseDayExpression(m[1]), openAt, closeAt)
	}

	return nil
}

func intervalsFor(days []int, open, close int) []dayInterval {
	out := make([]dayInterval, 0, len(days))
	for _, d := range days {
		out = append(out, dayInterval{day: d, open: open, close: close})
	}
	return out
}

// parseDayExpression resolves "Ma-Vr", "Fri-Sun", "daily", "di en do" and
// similar expressions into weekday indices.
func parseDayExpression(expression string) []int {
	cleaned := listWordPattern.ReplaceAllString(expression, ",")
	cleaned = strings.NewReplacer("–", "-", "—", "-", ".", "").Replace(cleaned)
	cleaned = strings.TrimSpace(whitespacePattern.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return nil
	}

	seen := make(map[int]struct{}, 7)
	var days []int
	add := func(ds []int) {
		for _, d := range ds {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			days = append(days, d)
		}
	}

	for _, part := range strings.Split(cleaned, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "daily") || strings.HasPrefix(lower, "dagelijks") {
			add(allDays())
			continue
		}

		bounds := strings.Split(trimmed, "-")
		startRaw := bounds[0]
		endRaw := startRaw
		if len(bounds) > 1 && strings.TrimSpace(bounds[1]) != "" {
			endRaw = bounds[1]
		}

		start := normalizeDayToken(startRaw)
		if start == dayAll {
			add(allDays())
			continue
		}
		if start == dayNone {
			continue
		}
		end := normalizeDayToken(endRaw)
		if end == dayNone {
			end = start
		}
		add(expandDayRange(start, end))
	}
	return days
}

func normalizeDayToken(token string) int {
	trimmed := strings.ToLower(strings.TrimSpace(token))
	if trimmed == "" {
		return dayNone
	}
	for _, p := range dayPrefixes {
		if strings.HasPrefix(trimmed, p.prefix) {
			return p.day
		}
	}
	return dayNone
}

// expandDayRange walks the week from start to end inclusive, wrapping
// around Saturday so that Fri-Sun yields Fri, Sat, Sun.
func expandDayRange(start, end int) []int {
	if start == dayAll || end == dayAll {
		return allDays()
	}
	if start == end {
		return []int{start}
	}
	var days []int
	for current := start; len(days) < 7; current = (current + 1) % 7 {
		days = append(days, current)
		if current == end {
			break
		}
	}
	return days
}

func allDays() []int {
	return []int{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// parseClock reads "HH:MM" or "HH.MM". Hours up to 29 are accepted so that
// closing times after midnight can be written without a date rollover.
func parseClock(value string) (int, bool) {
	normalized := strings.Replace(strings.TrimSpace(value), ".", ":", 1)
	hoursPart, minutesPart, ok := strings.Cut(normalized, ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(hoursPart)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(minutesPart)
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 29 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
