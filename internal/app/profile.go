package app

import (
	"math/rand"
	"strings"
	"time"
)

// DefaultProfilePrefix tags profile IDs when no prefix is configured.
const DefaultProfilePrefix = "AOD"

const profileIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewProfileID builds an opaque completion tag: PREFIX_YYYYMMDD_xxxxxx.
func NewProfileID(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultProfilePrefix
	}
	var suffix strings.Builder
	for i := 0; i < 6; i++ {
		suffix.WriteByte(profileIDAlphabet[rand.Intn(len(profileIDAlphabet))])
	}
	return prefix + "_" + now.UTC().Format("20060102") + "_" + suffix.String()
}
