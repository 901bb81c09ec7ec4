package auth

import (
	"errors"
	"net/url"
	"testing"
)

const testToken = "12345:test-bot-token"

func signedInitData(t *testing.T, userJSON string) string {
	t.Helper()
	values := url.Values{}
	values.Set("auth_date", "1718450000")
	values.Set("query_id", "AAF3test")
	if userJSON != "" {
		values.Set("user", userJSON)
	}
	values.Set("hash", SignInitData(values, testToken))
	return values.Encode()
}

func TestVerifyInitDataRoundTrip(t *testing.T) {
	initData := signedInitData(t, `{"id":777000,"first_name":"Ada","username":"ada"}`)

	user, err := VerifyInitData(initData, testToken)
	if err != nil {
		t.Fatalf("VerifyInitData: %v", err)
	}
	if user.ID != 777000 {
		t.Errorf("ID = %d, want 777000", user.ID)
	}
	if user.Username != "ada" || user.FirstName != "Ada" {
		t.Errorf("user = %+v, want ada/Ada", user)
	}
}

func TestVerifyInitDataRejectsTampering(t *testing.T) {
	initData := signedInitData(t, `{"id":777000,"first_name":"Ada"}`)

	values, _ := url.ParseQuery(initData)
	values.Set("user", `{"id":999,"first_name":"Eve"}`)

	if _, err := VerifyInitData(values.Encode(), testToken); !errors.Is(err, ErrBadHash) {
		t.Errorf("err = %v, want ErrBadHash", err)
	}
}

func TestVerifyInitDataWrongToken(t *testing.T) {
	initData := signedInitData(t, `{"id":777000,"first_name":"Ada"}`)
	if _, err := VerifyInitData(initData, "other:token"); !errors.Is(err, ErrBadHash) {
		t.Errorf("err = %v, want ErrBadHash", err)
	}
}

func TestVerifyInitDataEdgeCases(t *testing.T) {
	if _, err := VerifyInitData("", testToken); !errors.Is(err, ErrEmptyInitData) {
		t.Errorf("empty: err = %v, want ErrEmptyInitData", err)
	}
	if _, err := VerifyInitData("auth_date=1", testToken); !errors.Is(err, ErrNoHash) {
		t.Errorf("no hash: err = %v, want ErrNoHash", err)
	}
	if _, err := VerifyInitData(signedInitData(t, ""), testToken); !errors.Is(err, ErrNoUser) {
		t.Errorf("no user: err = %v, want ErrNoUser", err)
	}
}
