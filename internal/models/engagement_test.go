package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostMetadataValidate(t *testing.T) {
	tests := []struct {
		name string
		meta PostMetadata
		ok   bool
	}{
		{"text post", PostMetadata{Version: PostMetadataVersion, Kind: "text"}, true},
		{"link post", PostMetadata{Version: PostMetadataVersion, Kind: "link", LinkURL: "https://example.com"}, true},
		{"link post without url", PostMetadata{Version: PostMetadataVersion, Kind: "link"}, false},
		{"poll with two options", PostMetadata{Version: PostMetadataVersion, Kind: "poll", PollOpts: []string{"yes", "no"}}, true},
		{"poll with one option", PostMetadata{Version: PostMetadataVersion, Kind: "poll", PollOpts: []string{"yes"}}, false},
		{"unknown kind", PostMetadata{Version: PostMetadataVersion, Kind: "video"}, false},
		{"wrong version", PostMetadata{Version: 2, Kind: "text"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
