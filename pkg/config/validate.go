package config

import (
	"maps"
	"slices"

	"github.com/gnames/gn"
)

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidGroupList(name string, groups []string) bool {
	res := len(groups) > 0
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Log.Level":        {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":       {"json": s, "text": s, "tint": s},
		"Database.SSLMode": {"disable": s, "require": s, "verify-ca": s, "verify-full": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	valid := slices.Sorted(maps.Keys(data[name]))
	gn.Warn("<em>%s</em> does not support '%s' as a value, valid values are %v, ignoring",
		name, val, valid)
	return false
}
