package nova

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// apiError converts a non-2xx response into an error, keeping the
// service's own detail message when the body carries one.
func apiError(resp *resty.Response) error {
	if detail := gjson.GetBytes(resp.Body(), "detail"); detail.Exists() {
		return fmt.Errorf("bad status: %s: %s", resp.Status(), detail.String())
	}

	return fmt.Errorf("bad status: %s", resp.Status())
}
