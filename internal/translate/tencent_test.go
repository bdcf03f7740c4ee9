package translate

import (
	"errors"
	"strings"
	"testing"

	terrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
)

func TestWrapProviderErrorFoldsSDKError(t *testing.T) {
	sdkErr := terrors.NewTencentCloudSDKError("AuthFailure.SignatureFailure", "signature mismatch", "req-1")
	err := wrapProviderError(sdkErr)

	if !errors.Is(err, ErrTranslation) {
		t.Fatalf("wrapped error = %v, want ErrTranslation", err)
	}
	if !strings.Contains(err.Error(), "AuthFailure.SignatureFailure") {
		t.Errorf("wrapped error %q does not carry the provider code", err.Error())
	}
}

func TestWrapProviderErrorFoldsTransportError(t *testing.T) {
	err := wrapProviderError(errors.New("dial tcp: connection refused"))

	if !errors.Is(err, ErrTranslation) {
		t.Fatalf("wrapped error = %v, want ErrTranslation", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("wrapped error %q dropped the diagnostic detail", err.Error())
	}
}
