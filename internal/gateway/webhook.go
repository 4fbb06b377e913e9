package gateway

// WebhookConfig is the normalized event-webhook configuration of an
// instance. Field names match the gateway's wire format.
type WebhookConfig struct {
	URL                 string   `json:"url"`
	Enabled             bool     `json:"enabled"`
	Events              []string `json:"events"`
	ExcludeMessages     []string `json:"excludeMessages"`
	AddURLEvents        bool     `json:"addUrlEvents"`
	AddURLTypesMessages bool     `json:"addUrlTypesMessages"`
}

// DefaultWebhookConfig is what an instance without a configured webhook
// normalizes to.
func DefaultWebhookConfig() WebhookConfig {
	return WebhookConfig{
		Events: []string{"messages"},
	}
}

// NormalizeWebhook turns whatever the gateway returned for a webhook lookup
// (object, list of objects, empty list, or nothing at all) into a
// WebhookConfig. Some gateway versions omit "enabled"; a webhook with a URL
// is then assumed active.
func NormalizeWebhook(raw interface{}) WebhookConfig {
	if items, ok := raw.([]interface{}); ok {
		if len(items) == 0 {
			return DefaultWebhookConfig()
		}
		raw = items[0]
	}

	m := asMap(raw)
	if len(m) == 0 {
		return DefaultWebhookConfig()
	}

	cfg := WebhookConfig{
		URL:             stringField(m, "url"),
		Events:          stringSlice(m["events"]),
		ExcludeMessages: stringSlice(m["excludeMessages"]),
	}
	if enabled, ok := m["enabled"].(bool); ok {
		cfg.Enabled = enabled
	} else {
		cfg.Enabled = cfg.URL != ""
	}
	if v, ok := m["addUrlEvents"].(bool); ok {
		cfg.AddURLEvents = v
	}
	if v, ok := m["addUrlTypesMessages"].(bool); ok {
		cfg.AddURLTypesMessages = v
	}
	if len(cfg.Events) == 0 {
		cfg.Events = []string{"messages"}
	}
	return cfg
}

// ExtractCreateToken pulls the per-instance token out of a create response.
// Known shapes: top-level token, top-level hash, nested instance.token, or
// the whole body being the token string. A creation whose token cannot be
// recovered leaves the instance permanently unusable, so no shape matching
// is an error, not a default.
func ExtractCreateToken(resp interface{}) (string, bool) {
	if s, ok := resp.(string); ok && s != "" {
		return s, true
	}
	m := asMap(resp)
	if v := stringField(m, "token", "hash"); v != "" {
		return v, true
	}
	if v := stringField(asMap(m["instance"]), "token"); v != "" {
		return v, true
	}
	return "", false
}
