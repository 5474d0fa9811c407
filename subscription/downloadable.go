package subscription

// newDownloadable constructs a Downloadable subscription from its stored id
// and the properties parsed alongside it.
func newDownloadable(id string, props []KV) *Subscription {
	s := &Subscription{ID: id, Type: Downloadable}
	parseStringProperty(props, "title", &s.Title)
	parseBoolProperty(props, "disabled", &s.Disabled)
	return s
}
