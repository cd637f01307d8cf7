//go:generate mockgen -source=$GOFILE -package=$GOPACKAGE -destination=./mock/$GOFILE

package params

import (
	"bytes"
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	jobsmodel "github.com/hitesh22rana/ftpworker/internal/model/jobs"
)

// SecretResolver resolves a credential name into its secret value.
type SecretResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Kind discriminates the two shapes a parameter value can take.
type Kind int

const (
	// KindPlain is a value used as-is.
	KindPlain Kind = iota
	// KindCredentialRef is the name of a secret held by the credential service.
	KindCredentialRef
)

// Reference is the classified candidate value of a parameter.
type Reference struct {
	Kind Kind
	Raw  json.RawMessage
}

// Classify computes the candidate value of the parameter and tags it.
func Classify(p *jobsmodel.Parameter) Reference {
	kind := KindPlain
	if p.IsCredential() {
		kind = KindCredentialRef
	}

	return Reference{
		Kind: kind,
		Raw:  p.Candidate(),
	}
}

// Resolver extracts values from the parameters of a job.
type Resolver struct {
	secrets SecretResolver
}

// New creates a new parameter resolver.
func New(secrets SecretResolver) *Resolver {
	return &Resolver{
		secrets: secrets,
	}
}

// Find returns the first parameter whose id is key.
func Find(parameters []jobsmodel.Parameter, key string) (*jobsmodel.Parameter, bool) {
	for i := range parameters {
		if parameters[i].ID == key {
			return &parameters[i], true
		}
	}

	return nil, false
}

// Get returns the raw value of the parameter identified by key, nil when absent.
// Credential parameters return their secret, JSON encoded as a string.
func (r *Resolver) Get(ctx context.Context, parameters []jobsmodel.Parameter, key string) (json.RawMessage, error) {
	p, ok := Find(parameters, key)
	if !ok {
		return nil, nil
	}

	ref := Classify(p)
	if ref.Kind == KindPlain {
		if isNull(ref.Raw) {
			return nil, nil
		}
		return ref.Raw, nil
	}

	var name string
	if err := json.Unmarshal(ref.Raw, &name); err != nil || name == "" {
		return nil, status.Errorf(codes.InvalidArgument, "invalid credential name for parameter %s", key)
	}

	secret, err := r.secrets.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	//nolint:errchkjson // Marshaling a string never fails.
	value, _ := json.Marshal(secret)
	return value, nil
}

// GetString returns the string value of the parameter identified by key, empty when absent.
func (r *Resolver) GetString(ctx context.Context, parameters []jobsmodel.Parameter, key string) (string, error) {
	var value string
	if _, err := r.Decode(ctx, parameters, key, &value); err != nil {
		return "", err
	}

	return value, nil
}

// Decode unmarshals the value of the parameter identified by key into dest.
// It reports whether the parameter held a value.
func (r *Resolver) Decode(ctx context.Context, parameters []jobsmodel.Parameter, key string, dest any) (bool, error) {
	raw, err := r.Get(ctx, parameters, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, status.Errorf(codes.InvalidArgument, "invalid value for parameter %s: %v", key, err)
	}

	return true, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
