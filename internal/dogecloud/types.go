package dogecloud

import (
	"encoding/json"
	"time"
)

const (
	// DefaultBaseURL is the DogeCloud API root
	DefaultBaseURL = "https://api.dogecloud.com"

	tmpTokenPath = "/auth/tmp_token.json"

	// ChannelOSSFull requests credentials for full object storage access
	ChannelOSSFull = "OSS_FULL"
)

// Credentials are temporary S3 credentials issued by the API
type Credentials struct {
	AccessKeyID     string    `json:"accessKeyId"`
	SecretAccessKey string    `json:"secretAccessKey"`
	SessionToken    string    `json:"sessionToken"`
	Expiration      time.Time `json:"-"`
}

// Bucket describes a storage bucket the credentials are scoped to
type Bucket struct {
	Name       string `json:"name"`
	S3Bucket   string `json:"s3Bucket"`
	S3Endpoint string `json:"s3Endpoint"`
}

// TmpToken is the data payload of /auth/tmp_token.json
type TmpToken struct {
	Credentials Credentials `json:"Credentials"`
	ExpiredAt   int64       `json:"ExpiredAt"`
	Buckets     []Bucket    `json:"Buckets"`
}

// FindBucket returns the bucket with the given DogeCloud name
func (t *TmpToken) FindBucket(name string) (Bucket, bool) {
	for _, b := range t.Buckets {
		if b.Name == name {
			return b, true
		}
	}
	return Bucket{}, false
}

type tmpTokenRequest struct {
	Channel string   `json:"channel"`
	Scopes  []string `json:"scopes"`
}

// envelope is the common response shape of every API call
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}
