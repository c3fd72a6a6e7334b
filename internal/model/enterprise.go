package model

// Enterprise owns vehicles and drivers. Its timezone is the IANA zone used
// to resolve report calendar buckets; reports always use the zone current
// at generation time.
type Enterprise struct {
	ID       int64
	Name     string
	City     string
	Timezone string
}
