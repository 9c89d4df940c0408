package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultGraphURL = "https://graph.facebook.com/v12.0"

// FacebookProfile is the outcome of the two Graph API checks a login
// performs: token validity and the email attached to the account. Email is
// empty when the Facebook account exposes none.
type FacebookProfile struct {
	Valid bool
	ID    string
	Email string
}

type FacebookVerifier struct {
	appToken string
	baseURL  string
	client   *http.Client
}

func NewFacebookVerifier(appToken string) *FacebookVerifier {
	return &FacebookVerifier{
		appToken: appToken,
		baseURL:  defaultGraphURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewFacebookVerifierWithBase points the verifier at a custom Graph API
// endpoint. Used by tests.
func NewFacebookVerifierWithBase(appToken, baseURL string, client *http.Client) *FacebookVerifier {
	return &FacebookVerifier{appToken: appToken, baseURL: baseURL, client: client}
}

type debugTokenResponse struct {
	Data struct {
		IsValid bool   `json:"is_valid"`
		UserID  string `json:"user_id"`
	} `json:"data"`
}

type profileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verify performs the debug_token validity check followed by the profile
// lookup. A failed validity check yields Valid=false rather than an error so
// the caller can distinguish a bad token from a transport failure.
func (f *FacebookVerifier) Verify(ctx context.Context, accessToken string) (*FacebookProfile, error) {
	debugURL := fmt.Sprintf("%s/debug_token?input_token=%s&access_token=%s",
		f.baseURL, url.QueryEscape(accessToken), url.QueryEscape(f.appToken))

	var debug debugTokenResponse
	status, err := f.getJSON(ctx, debugURL, &debug)
	if err != nil {
		return nil, fmt.Errorf("facebook debug_token: %w", err)
	}
	if status != http.StatusOK || !debug.Data.IsValid {
		return &FacebookProfile{Valid: false}, nil
	}

	profileURL := fmt.Sprintf("%s/me?fields=id,email&access_token=%s",
		f.baseURL, url.QueryEscape(accessToken))

	var profile profileResponse
	status, err = f.getJSON(ctx, profileURL, &profile)
	if err != nil {
		return nil, fmt.Errorf("facebook profile: %w", err)
	}
	if status != http.StatusOK {
		return &FacebookProfile{Valid: false}, nil
	}

	return &FacebookProfile{
		Valid: true,
		ID:    profile.ID,
		Email: profile.Email,
	}, nil
}

func (f *FacebookVerifier) getJSON(ctx context.Context, rawURL string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}
