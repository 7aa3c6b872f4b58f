package piv

import (
	"fmt"

	"github.com/cardforge/piv-card/pkg/iso7816"
)

// GET VERSION (vendor INS 'FD'):
// Returns the firmware version as 3 raw bytes: major, minor, patch.

// Version is a firmware version triple.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// GetVersionCommand reads the firmware version.
type GetVersionCommand struct{}

// Build encodes the command: fixed header, no data, no expected response.
func (GetVersionCommand) Build() (*iso7816.CommandAPDU, error) {
	return iso7816.NewCommandAPDU(0x00, insGetVersion, 0x00, 0x00, nil, 0), nil
}

// GetVersionResponse is the decoded reply to a GET VERSION.
type GetVersionResponse struct {
	response
}

// NewGetVersionResponse decodes the raw reply to a GET VERSION command.
func NewGetVersionResponse(apdu *iso7816.ResponseAPDU) (*GetVersionResponse, error) {
	base, err := newResponse(apdu, nil)
	if err != nil {
		return nil, err
	}
	return &GetVersionResponse{response: base}, nil
}

// GetData returns the firmware version. A body of any width other than 3
// bytes is a malformed response.
func (r *GetVersionResponse) GetData() (Version, error) {
	if err := r.requireStatus(StatusSuccess); err != nil {
		return Version{}, err
	}

	body := r.body()
	if len(body) != 3 {
		return Version{}, malformed("version body is %d bytes, want 3", len(body))
	}

	return Version{Major: body[0], Minor: body[1], Patch: body[2]}, nil
}
