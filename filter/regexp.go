package filter

// RegExpRegistry is the outbound contract for the external regex engine
// request filters compile their pattern against. The core never matches
// requests itself; it only registers and releases compiled patterns.
type RegExpRegistry interface {
	GenerateRegExp(pattern string, caseSensitive bool) (id int, err error)
	TestRegExp(id int, text string) bool
	DeleteRegExp(id int)
}

// RegisterPattern compiles f's text against rx and stores the resulting
// handle in f.PatternID. Only meaningful for BlockingType/WhitelistType
// filters; it is a no-op for any other Type.
func RegisterPattern(f *Filter, rx RegExpRegistry, caseSensitive bool) error {
	if f == nil || rx == nil {
		return nil
	}
	if f.Type != BlockingType && f.Type != WhitelistType {
		return nil
	}
	id, err := rx.GenerateRegExp(f.Text, caseSensitive)
	if err != nil {
		return err
	}
	f.PatternID = id
	return nil
}

// ReleasePattern releases f's compiled pattern from rx, if it has one.
func ReleasePattern(f *Filter, rx RegExpRegistry) {
	if f == nil || rx == nil || f.PatternID == 0 {
		return
	}
	rx.DeleteRegExp(f.PatternID)
	f.PatternID = 0
}
