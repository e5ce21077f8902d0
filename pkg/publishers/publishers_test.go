package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryEmptyPath(t *testing.T) {
	reg, err := LoadRegistry("  ")
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 0 {
		t.Fatalf("expected empty registry, got %d entries", got)
	}
}

func TestLoadRegistryJSONAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{"publishers":[
		{"id":" hook ","type":"HTTP","http":{"url":"https://example.com","headers":{"X-A":"1"," ":"x"}}},
		{"id":"topic","type":"sns","sns":{"topic_arn":"arn:aws:sns:eu-west-1:1:t","region":"eu-west-1"}},
		{"id":"ps","type":"gcp_pubsub","gcp_pubsub":{"project_id":"p","topic":"t"}}
	]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	hook, ok := reg.ByID("hook")
	if !ok {
		t.Fatalf("expected hook publisher")
	}
	if hook.Type != TypeHTTP || hook.HTTP.Method != "POST" || hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", hook.HTTP)
	}
	if len(hook.HTTP.Headers) != 1 {
		t.Fatalf("blank headers should be dropped, got %#v", hook.HTTP.Headers)
	}
	if !hook.EnabledValue() {
		t.Fatalf("enabled should default to true")
	}
	if len(reg.Enabled()) != 3 {
		t.Fatalf("expected 3 enabled publishers")
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: dup
    type: http
    http:
      url: https://example.com
  - id: dup
    type: http
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfigAWS(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
		ok   bool
	}{
		{
			name: "sqs ok",
			cfg:  PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q", AWSAccess: AWSAccess{Region: "us-east-1"}}},
			ok:   true,
		},
		{
			name: "sqs missing region",
			cfg:  PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		},
		{
			name: "sns half credentials",
			cfg: PublisherConfig{ID: "t", Type: TypeSNS, SNS: &SNSPublisherConfig{
				TopicARN:  "arn",
				AWSAccess: AWSAccess{Region: "us-east-1", AccessKeyID: "AKIA"},
			}},
		},
		{
			name: "sns static credentials",
			cfg: PublisherConfig{ID: "t", Type: TypeSNS, SNS: &SNSPublisherConfig{
				TopicARN:  "arn",
				AWSAccess: AWSAccess{Region: "us-east-1", AccessKeyID: "AKIA", SecretAccessKey: "secret"},
			}},
			ok: true,
		},
		{
			name: "pubsub missing topic",
			cfg:  PublisherConfig{ID: "p", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePublisherConfig(tc.cfg)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
