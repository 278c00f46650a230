package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCDNURL(t *testing.T) {
	withCDN, err := NewS3Client(S3Config{
		Bucket: "wiremail",
		CDNURL: "https://cdn.wiremail.io/",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.wiremail.io/attachments/a.png",
		withCDN.GetCDNURL("attachments/a.png"))

	withoutCDN, err := NewS3Client(S3Config{Bucket: "wiremail"})
	require.NoError(t, err)

	assert.Equal(t, "https://wiremail.s3.amazonaws.com/attachments/a.png",
		withoutCDN.GetCDNURL("attachments/a.png"))
}

func TestUploadResult_PublicURLPrefersCDN(t *testing.T) {
	r := &UploadResult{
		URL:    "https://wiremail.s3.amazonaws.com/attachments/a.png",
		CDNURL: "https://cdn.wiremail.io/attachments/a.png",
	}
	assert.Equal(t, r.CDNURL, r.PublicURL())

	r.CDNURL = ""
	assert.Equal(t, r.URL, r.PublicURL())
}

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("attachments", "photo.png")

	assert.True(t, strings.HasPrefix(key, "attachments/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Contains(t, key, "photo_")
}
