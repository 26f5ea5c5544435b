package ffmpeg

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/noriah/thump/input"
	"github.com/pkg/errors"
)

type AVFoundationDevice struct {
	Index int
	Name  string
}

func (d AVFoundationDevice) String() string {
	return fmt.Sprintf("%d:%s", d.Index, d.Name)
}

// parseAVFoundation reads the video section of an avfoundation device
// listing.
func parseAVFoundation(o []byte) ([]input.Device, error) {
	var video bool
	var devices []input.Device

	scanner := bufio.NewScanner(bytes.NewReader(o))
	for scanner.Scan() {
		text := scanner.Text()

		// Trim away the prefix.
		if strings.HasPrefix(text, "[AVFoundation") {
			parts := strings.SplitN(text, "] ", 2)
			if len(parts) == 2 {
				text = parts[1]
			}
		}

		switch text {
		case "AVFoundation video devices:":
			video = true
			continue
		case "AVFoundation audio devices:":
			video = false
			continue
		}

		if !video || !strings.HasPrefix(text, "[") {
			continue
		}

		parts := strings.SplitN(text, " ", 2)
		if len(parts) != 2 {
			continue
		}

		n, err := strconv.Atoi(strings.Trim(parts[0], "[]"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse device index")
		}

		devices = append(devices, AVFoundationDevice{
			Index: n,
			Name:  parts[1],
		})
	}

	return devices, nil
}

type DShowDevice struct {
	Name string
}

func (d DShowDevice) String() string {
	return d.Name
}

// parseDShow reads the video devices of a dshow device listing.
func parseDShow(o []byte) []input.Device {
	var devices []input.Device

	scanner := bufio.NewScanner(bytes.NewReader(o))
	for scanner.Scan() {
		text := scanner.Text()

		// Trim away the prefix.
		if strings.HasPrefix(text, "[dshow") {
			parts := strings.SplitN(text, "] ", 2)
			if len(parts) != 2 {
				continue
			}
			text = parts[1]
		}

		// "Name" (video)
		if !strings.HasPrefix(text, "\"") {
			continue
		}

		parts := strings.SplitN(text[1:], "\" (", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[1], "video") {
			continue
		}

		devices = append(devices, DShowDevice{Name: parts[0]})
	}

	return devices
}
