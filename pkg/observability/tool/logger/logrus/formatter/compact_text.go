package formatter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var logLevelSymbol []byte

func init() {
	logLevelSymbol = make([]byte, len(logrus.AllLevels)+1)
	for _, level := range logrus.AllLevels {
		logLevelSymbol[level] = strings.ToUpper(level.String()[:1])[0]
	}
}

// CompactText is a logrus formatter which prints laconic lines, like
//
//	[12:34:56 I syncer.go:56] updated: /home/user/otau/file.ota	filename=file.ota
//
// Fields are printed sorted by key. If FieldAllowList is set, only the
// listed fields are printed; fields from FieldDenyList are never printed.
type CompactText struct {
	TimestampFormat string
	FieldAllowList  []string
	FieldDenyList   []string
}

// Format implements logrus.Formatter.
func (f *CompactText) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := time.RFC3339
	if f.TimestampFormat != "" {
		timestamp = f.TimestampFormat
	}

	var str strings.Builder
	str.WriteString("[")
	str.WriteString(entry.Time.Format(timestamp))
	str.WriteByte(' ')
	str.WriteByte(logLevelSymbol[entry.Level])
	if entry.Caller != nil {
		fmt.Fprintf(&str, " %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	str.WriteString("] ")
	str.WriteString(entry.Message)

	for _, key := range f.keys(entry.Data) {
		fmt.Fprintf(&str, "\t%s=%v", key, entry.Data[key])
	}

	str.WriteByte('\n')
	return []byte(str.String()), nil
}

func (f *CompactText) keys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		if f.FieldAllowList != nil && !contains(f.FieldAllowList, key) {
			continue
		}
		if contains(f.FieldDenyList, key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
