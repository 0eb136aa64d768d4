package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentPatch_AttachmentPresence(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantSet  bool
		wantNull bool
		wantVal  string
	}{
		{name: "absent", body: `{"subject":"Fisika"}`},
		{name: "null", body: `{"attachmentUrl":null}`, wantSet: true, wantNull: true},
		{name: "empty", body: `{"attachmentUrl":""}`, wantSet: true},
		{name: "value", body: `{"attachmentUrl":"/pdfs/a.pdf"}`, wantSet: true, wantVal: "/pdfs/a.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p DocumentPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.wantSet, p.AttachmentURL.Set)
			assert.Equal(t, tt.wantNull, p.AttachmentURL.Null)
			assert.Equal(t, tt.wantVal, p.AttachmentURL.Value)
		})
	}
}

func TestOptionalString_Ptr(t *testing.T) {
	assert.Nil(t, OptionalString{Set: true, Null: true}.Ptr())
	p := OptionalString{Set: true, Value: "x"}.Ptr()
	require.NotNil(t, p)
	assert.Equal(t, "x", *p)
}

func TestPrice_Unmarshal(t *testing.T) {
	var v struct {
		Price *Price `json:"price"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"price":"12.5"}`), &v))
	assert.InDelta(t, 12.5, float64(*v.Price), 1e-9)

	require.NoError(t, json.Unmarshal([]byte(`{"price":7}`), &v))
	assert.InDelta(t, 7.0, float64(*v.Price), 1e-9)

	assert.Error(t, json.Unmarshal([]byte(`{"price":"abc"}`), &v))
}

func TestDocument_Attachment(t *testing.T) {
	d := &Document{}
	assert.Equal(t, "", d.Attachment())
	u := "/pdfs/x.pdf"
	d.AttachmentURL = &u
	assert.Equal(t, u, d.Attachment())
}
