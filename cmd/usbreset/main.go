// Command usbreset resets a USB device via USBDEVFS_RESET, the same
// recovery knob the teacher's original_source/scan/reset_usb.c
// provides for a wedged RTL-SDR dongle, extended here to resolve a
// device by vendor:product ID through jochenvg/go-udev instead of
// requiring the caller to already know its /dev/bus/usb/BBB/DDD path.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jochenvg/go-udev"
	"golang.org/x/sys/unix"
)

const usbdevfsReset = 21780 // USBDEVFS_RESET, linux/usbdevice_fs.h

func usage() {
	fmt.Fprintln(os.Stderr, "usage: usbreset /dev/bus/usb/BBB/DDD")
	fmt.Fprintln(os.Stderr, "       usbreset --vid-pid VVVV:PPPP")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return -1
	}

	path := args[0]
	if path == "--vid-pid" && len(args) == 2 {
		resolved, err := resolveByVidPid(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return -1
		}
		path = resolved
	}

	if err := resetDevice(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}
	return 0
}

func resetDevice(path string) error {
	fd, err := unix.Open(path, unix.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer unix.Close(fd)

	if err := unix.IoctlSetInt(fd, usbdevfsReset, 0); err != nil {
		return fmt.Errorf("USBDEVFS_RESET on %s: %w", path, err)
	}
	return nil
}

// resolveByVidPid walks udev's usb subsystem for a device matching
// "VVVV:PPPP" and returns its /dev/bus/usb/BBB/DDD device node path.
func resolveByVidPid(vidPid string) (string, error) {
	parts := strings.SplitN(strings.ToLower(vidPid), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("--vid-pid wants VVVV:PPPP")
	}
	vid, pid := parts[0], parts[1]

	u := udev.Udev{}
	enum := u.NewEnumerate()
	enum.AddMatchSubsystem("usb")
	devices, err := enum.Devices()
	if err != nil {
		return "", fmt.Errorf("enumerating usb devices: %w", err)
	}

	for _, d := range devices {
		if d.PropertyValue("ID_VENDOR_ID") == vid && d.PropertyValue("ID_MODEL_ID") == pid {
			bus := d.SysattrValue("busnum")
			dev := d.SysattrValue("devnum")
			if bus != "" && dev != "" {
				return fmt.Sprintf("/dev/bus/usb/%03s/%03s", bus, dev), nil
			}
		}
	}
	return "", fmt.Errorf("no usb device found for %s", vidPid)
}
