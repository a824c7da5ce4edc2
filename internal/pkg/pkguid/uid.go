package pkguid

// StringID generates unique string identifiers, such as request and event IDs.
type StringID interface {
	Generate() string
}

// NumberID generates unique numeric identifiers, such as payment IDs.
type NumberID interface {
	Generate() int64
}

var (
	_ StringID = (*UUID)(nil)
	_ NumberID = (*Snowflake)(nil)
)
