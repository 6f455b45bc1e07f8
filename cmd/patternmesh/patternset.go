package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// PatternEntry is one line of a pattern-set file: a topic pattern and the
// identifier reported when it matches.
type PatternEntry struct {
	Pattern string `mapstructure:"pattern"`
	ID      string `mapstructure:"id"`
}

type patternSet struct {
	Subscriptions []PatternEntry `mapstructure:"subscriptions"`
}

// loadPatternSet reads a YAML pattern-set file of the form:
//
//	subscriptions:
//	  - pattern: stock.**.price
//	    id: price-feed
//	  - pattern: orders.*
//	    id: order-audit
func loadPatternSet(path string) ([]PatternEntry, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read pattern set %s: %w", path, err)
	}

	var set patternSet
	if err := v.Unmarshal(&set); err != nil {
		return nil, fmt.Errorf("failed to parse pattern set %s: %w", path, err)
	}
	if len(set.Subscriptions) == 0 {
		return nil, fmt.Errorf("pattern set %s contains no subscriptions", path)
	}

	for i, entry := range set.Subscriptions {
		if entry.Pattern == "" {
			return nil, fmt.Errorf("pattern set %s: entry %d has no pattern", path, i)
		}
		if entry.ID == "" {
			return nil, fmt.Errorf("pattern set %s: entry %d has no id", path, i)
		}
	}

	return set.Subscriptions, nil
}
