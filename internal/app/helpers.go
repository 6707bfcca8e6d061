package app

import "strconv"

// ParamInt64 returns a URL parameter parsed as int64, or 0 when absent or
// malformed. Handlers treat 0 as "no such resource".
func ParamInt64(c Context, name string) int64 {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
