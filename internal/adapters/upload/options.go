package upload

import "strings"

// DefaultMaxBytes is the default upload size limit (5 MiB).
const DefaultMaxBytes int64 = 5 << 20

// DefaultAllowedTypes is the default content type allow-list.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Option applies a configuration option to the DiskSink.
type Option func(*DiskSink)

// WithMaxBytes sets the largest accepted upload.
func WithMaxBytes(n int64) Option {
	return func(s *DiskSink) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithAllowedTypes replaces the content type allow-list.
func WithAllowedTypes(types []string) Option {
	return func(s *DiskSink) {
		cleaned := make([]string, 0, len(types))
		for _, t := range types {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				cleaned = append(cleaned, t)
			}
		}
		if len(cleaned) > 0 {
			s.allowed = cleaned
		}
	}
}

// WithNameFunc overrides how stored file names (without extension) are generated.
func WithNameFunc(fn func() string) Option {
	return func(s *DiskSink) {
		if fn != nil {
			s.newName = fn
		}
	}
}
