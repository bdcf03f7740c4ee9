// Package translate wraps the Tencent machine-translation API. Provider
// SDK error types never cross this package boundary; every failure comes
// back as ErrTranslation with a diagnostic detail.
package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	terrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tmt "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tmt/v20180321"
)

var ErrTranslation = errors.New("translation failed")

const (
	tmtEndpoint    = "tmt.tencentcloudapi.com"
	requestTimeout = 10 // seconds, SDK takes an int
)

type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

type Client struct {
	tmt *tmt.Client
}

func NewClient(secretID, secretKey, region string) (*Client, error) {
	cred := common.NewCredential(secretID, secretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = tmtEndpoint
	cpf.HttpProfile.ReqTimeout = requestTimeout

	client, err := tmt.NewClient(cred, region, cpf)
	if err != nil {
		return nil, fmt.Errorf("%w: creating client: %v", ErrTranslation, err)
	}
	return &Client{tmt: client}, nil
}

func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	req := tmt.NewTextTranslateRequest()
	req.SourceText = common.StringPtr(text)
	req.Source = common.StringPtr(sourceLang)
	req.Target = common.StringPtr(targetLang)
	req.ProjectId = common.Int64Ptr(0)

	resp, err := c.tmt.TextTranslateWithContext(ctx, req)
	if err != nil {
		return "", wrapProviderError(err)
	}

	if resp.Response == nil || resp.Response.TargetText == nil || *resp.Response.TargetText == "" {
		return "", fmt.Errorf("%w: empty translation result", ErrTranslation)
	}
	return *resp.Response.TargetText, nil
}

// wrapProviderError folds any provider failure into ErrTranslation,
// surfacing the SDK error code when one is present.
func wrapProviderError(err error) error {
	var sdkErr *terrors.TencentCloudSDKError
	if errors.As(err, &sdkErr) {
		return fmt.Errorf("%w: %s: %s", ErrTranslation, sdkErr.Code, sdkErr.Message)
	}
	return fmt.Errorf("%w: %v", ErrTranslation, err)
}
