package gateway

// The gateway's JSON schema is not contractually fixed: depending on version
// it nests instance fields under an "instance" object, returns bare strings,
// or omits fields entirely. Every consumer goes through the ordered probes in
// this file instead of trusting a fixed shape.

// UnknownInstanceName is the sentinel used when no name can be determined
// from a gateway record.
const UnknownInstanceName = "unknown"

// Instance wraps one raw record from the gateway's instance list.
type Instance struct {
	raw interface{}
}

// NewInstance wraps a decoded gateway record.
func NewInstance(raw interface{}) Instance {
	return Instance{raw: raw}
}

// Raw returns the untouched decoded record.
func (i Instance) Raw() interface{} {
	return i.raw
}

// Name probes name, instanceName and instance.instanceName, accepts a bare
// string record, and falls back to UnknownInstanceName.
func (i Instance) Name() string {
	if s, ok := i.raw.(string); ok && s != "" {
		return s
	}
	m := asMap(i.raw)
	if v := stringField(m, "name", "instanceName"); v != "" {
		return v
	}
	if v := stringField(asMap(m["instance"]), "instanceName"); v != "" {
		return v
	}
	return UnknownInstanceName
}

// Status probes status and instance.status, then the legacy "connected"
// boolean. Empty string means the gateway reported nothing usable.
func (i Instance) Status() string {
	m := asMap(i.raw)
	if v := stringField(m, "status"); v != "" {
		return v
	}
	if v := stringField(asMap(m["instance"]), "status"); v != "" {
		return v
	}
	if connected, ok := m["connected"].(bool); ok {
		if connected {
			return "connected"
		}
		return "disconnected"
	}
	return ""
}

// Token probes token, hash, instance.token and AuthToken.
func (i Instance) Token() string {
	m := asMap(i.raw)
	if v := stringField(m, "token", "hash"); v != "" {
		return v
	}
	if v := stringField(asMap(m["instance"]), "token"); v != "" {
		return v
	}
	return stringField(m, "AuthToken")
}

// ProfilePicURL probes profilePicUrl, instance.profilePicUrl and avatar.
func (i Instance) ProfilePicURL() string {
	m := asMap(i.raw)
	if v := stringField(m, "profilePicUrl"); v != "" {
		return v
	}
	if v := stringField(asMap(m["instance"]), "profilePicUrl"); v != "" {
		return v
	}
	return stringField(m, "avatar")
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func stringField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
