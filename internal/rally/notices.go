package rally

import "strings"

// NoticeLevel controls how a notice is displayed.
type NoticeLevel uint8

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

// Notice is a single user-visible message.
type Notice struct {
	Text  string
	Level NoticeLevel
}

// NoticeLog is a bounded FIFO of user-visible notices. Network failures and
// other non-fatal problems land here instead of crashing anything.
type NoticeLog struct {
	Notices []Notice
	maxSize int
}

// NewNoticeLog creates a log that keeps the most recent maxSize notices.
func NewNoticeLog(maxSize int) *NoticeLog {
	return &NoticeLog{
		Notices: make([]Notice, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add appends a notice, evicting the oldest if full. Long messages are
// wrapped to fit the notice strip.
func (l *NoticeLog) Add(text string, level NoticeLevel) {
	const maxWidth = 46
	for _, line := range wrapText(text, maxWidth) {
		n := Notice{Text: line, Level: level}
		if len(l.Notices) >= l.maxSize {
			copy(l.Notices, l.Notices[1:])
			l.Notices[len(l.Notices)-1] = n
		} else {
			l.Notices = append(l.Notices, n)
		}
	}
}

// Recent returns the last n notices (or fewer if the log is shorter).
func (l *NoticeLog) Recent(n int) []Notice {
	if n > len(l.Notices) {
		n = len(l.Notices)
	}
	return l.Notices[len(l.Notices)-n:]
}

// wrapText splits text into lines no longer than maxWidth.
func wrapText(s string, maxWidth int) []string {
	if len(s) <= maxWidth {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var result []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > maxWidth {
			result = append(result, line)
			line = w
		} else {
			line += " " + w
		}
	}
	if line != "" {
		result = append(result, line)
	}
	return result
}
