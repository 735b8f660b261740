package credentials

import "sort"

// ServerConfig is the credential payload the receiver keeps for a media server
type ServerConfig struct {
	ServerURL    string            `mapstructure:"server_url" json:"serverUrl"`
	ClientID     string            `mapstructure:"client_id" json:"clientId"`
	ClientSecret string            `mapstructure:"client_secret" json:"-"`
	Scopes       []string          `mapstructure:"scopes" json:"scopes,omitempty"`
	Extra        map[string]string `mapstructure:"extra" json:"extra,omitempty"`
}

// HasSecret reports whether the configuration carries a client secret
func (c ServerConfig) HasSecret() bool {
	return c.ClientSecret != ""
}

// Seed adds every entry to the store in server ID order and returns the IDs
// that were rejected because they were already present.
func Seed[C any](store *Store[C], entries map[string]C) []string {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var rejected []string
	for _, id := range ids {
		if !store.Add(id, entries[id]) {
			rejected = append(rejected, id)
		}
	}
	return rejected
}
