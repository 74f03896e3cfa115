package cloudinary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned asset",
			url:  "https://res.cloudinary.com/demo/image/upload/v1700000000/darsah/attachments/abc123.png",
			want: "darsah/attachments/abc123",
		},
		{
			name: "unversioned asset",
			url:  "https://res.cloudinary.com/demo/raw/upload/darsah/attachments/report.pdf",
			want: "darsah/attachments/report",
		},
		{
			name: "not a cloudinary url",
			url:  "https://example.com/files/abc.png",
			want: "",
		},
		{
			name: "empty remainder",
			url:  "https://res.cloudinary.com/demo/image/upload/v123/",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PublicIDFromURL(tc.url))
		})
	}
}
