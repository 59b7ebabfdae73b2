package storage

import (
	"encoding/json"
	"time"
)

// profileDocument is the on-disk/on-object layout used by backends that keep
// a whole profile in one blob. Rewriting the blob is what makes a group
// write atomic for them.
type profileDocument struct {
	UpdatedAt time.Time         `json:"updated_at"`
	Records   map[string]string `json:"records"`
}

func decodeDocument(data []byte) (*profileDocument, error) {
	doc := &profileDocument{}
	if len(data) == 0 {
		doc.Records = map[string]string{}
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	if doc.Records == nil {
		doc.Records = map[string]string{}
	}
	return doc, nil
}

func (d *profileDocument) pick(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		for k, v := range d.Records {
			out[k] = v
		}
		return out
	}
	for _, k := range keys {
		if v, ok := d.Records[k]; ok {
			out[k] = v
		}
	}
	return out
}

func (d *profileDocument) apply(set map[string]string, remove []string, now time.Time) {
	for k, v := range set {
		d.Records[k] = v
	}
	for _, k := range remove {
		delete(d.Records, k)
	}
	d.UpdatedAt = now
}

func (d *profileDocument) encode() ([]byte, error) {
	return json.Marshal(d)
}
