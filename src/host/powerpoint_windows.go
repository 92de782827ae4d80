//go:build windows

package host

import (
	"errors"
	"fmt"
	"image/color"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/lxn/win"
)

const (
	progID      = "PowerPoint.Application"
	msoInkShape = 22
)

var errNoSlideShow = errors.New("no running slideshow")

// PowerPoint acquires slideshow views from a running PowerPoint instance.
// It must be created and used on a single OS thread.
type PowerPoint struct{}

// NewPowerPoint initializes COM for the calling thread.
func NewPowerPoint() (*PowerPoint, error) {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		// S_FALSE: already initialized on this thread.
		if !errors.As(err, &oleErr) || oleErr.Code() != 1 {
			return nil, fmt.Errorf("CoInitializeEx: %w", err)
		}
	}
	return &PowerPoint{}, nil
}

// Close uninitializes COM for the calling thread.
func (p *PowerPoint) Close() { ole.CoUninitialize() }

func (p *PowerPoint) AcquireView() (View, bool) {
	return guardAcquire(p.acquire)
}

func (p *PowerPoint) acquire() (View, error) {
	unknown, err := oleutil.GetActiveObject(progID)
	if err != nil {
		return nil, err
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("query IDispatch: %w", err)
	}

	v := &pptView{app: app}
	windows, err := getDispatch(app, "SlideShowWindows")
	if err != nil {
		v.Release()
		return nil, err
	}
	v.windows = windows

	count, err := getInt(windows, "Count")
	if err != nil || count < 1 {
		v.Release()
		if err == nil {
			err = errNoSlideShow
		}
		return nil, err
	}

	ssw, err := callDispatch(windows, "Item", int32(1))
	if err != nil {
		v.Release()
		return nil, err
	}
	v.window = ssw

	view, err := getDispatch(ssw, "View")
	if err != nil {
		v.Release()
		return nil, err
	}
	v.view = view
	return v, nil
}

type pptView struct {
	app     *ole.IDispatch
	windows *ole.IDispatch
	window  *ole.IDispatch
	view    *ole.IDispatch
}

func (v *pptView) PointerType() (PointerType, error) {
	n, err := getInt(v.view, "PointerType")
	return PointerType(n), err
}

func (v *pptView) SetPointerType(p PointerType) error {
	_, err := oleutil.PutProperty(v.view, "PointerType", int32(p))
	return err
}

func (v *pptView) SetPointerColor(c color.RGBA) error {
	if err := v.SetPointerType(PointerPen); err != nil {
		return err
	}
	pc, err := getDispatch(v.view, "PointerColor")
	if err != nil {
		return err
	}
	defer pc.Release()
	_, err = oleutil.PutProperty(pc, "RGB", RGB(c))
	return err
}

func (v *pptView) CurrentSlide() (int, error) {
	slide, err := getDispatch(v.view, "Slide")
	if err != nil {
		return 0, err
	}
	defer slide.Release()
	return getInt(slide, "SlideIndex")
}

func (v *pptView) SlideCount() (int, error) {
	pres, err := getDispatch(v.window, "Presentation")
	if err != nil {
		return 0, err
	}
	defer pres.Release()
	slides, err := getDispatch(pres, "Slides")
	if err != nil {
		return 0, err
	}
	defer slides.Release()
	return getInt(slides, "Count")
}

func (v *pptView) Next() error     { return callVoid(v.view, "Next") }
func (v *pptView) Previous() error { return callVoid(v.view, "Previous") }

func (v *pptView) GotoSlide(index int) error {
	return callVoid(v.view, "GotoSlide", int32(index))
}

func (v *pptView) EraseDrawing() error { return callVoid(v.view, "EraseDrawing") }

func (v *pptView) HasInk() bool {
	has, err := v.hasInk()
	if err != nil {
		return true
	}
	return has
}

func (v *pptView) hasInk() (bool, error) {
	slide, err := getDispatch(v.view, "Slide")
	if err != nil {
		return false, err
	}
	defer slide.Release()
	shapes, err := getDispatch(slide, "Shapes")
	if err != nil {
		return false, err
	}
	defer shapes.Release()
	count, err := getInt(shapes, "Count")
	if err != nil {
		return false, err
	}
	for i := 1; i <= count; i++ {
		shape, err := callDispatch(shapes, "Item", int32(i))
		if err != nil {
			return false, err
		}
		t, err := getInt(shape, "Type")
		shape.Release()
		if err != nil {
			return false, err
		}
		if t == msoInkShape {
			return true, nil
		}
	}
	return false, nil
}

func (v *pptView) Exit() error { return callVoid(v.view, "Exit") }

func (v *pptView) Activate() error {
	hwnd, err := getInt(v.window, "HWND")
	if err != nil {
		return err
	}
	if !win.SetForegroundWindow(win.HWND(uintptr(hwnd))) {
		return errors.New("SetForegroundWindow refused")
	}
	return nil
}

func (v *pptView) Release() {
	for _, d := range []*ole.IDispatch{v.view, v.window, v.windows, v.app} {
		if d != nil {
			d.Release()
		}
	}
	v.view, v.window, v.windows, v.app = nil, nil, nil, nil
}

func getDispatch(d *ole.IDispatch, name string, params ...interface{}) (*ole.IDispatch, error) {
	res, err := oleutil.GetProperty(d, name, params...)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	disp := res.ToIDispatch()
	if disp == nil {
		return nil, fmt.Errorf("get %s: not an object", name)
	}
	return disp, nil
}

func callDispatch(d *ole.IDispatch, name string, params ...interface{}) (*ole.IDispatch, error) {
	res, err := oleutil.CallMethod(d, name, params...)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", name, err)
	}
	disp := res.ToIDispatch()
	if disp == nil {
		return nil, fmt.Errorf("call %s: not an object", name)
	}
	return disp, nil
}

func callVoid(d *ole.IDispatch, name string, params ...interface{}) error {
	res, err := oleutil.CallMethod(d, name, params...)
	if err != nil {
		return fmt.Errorf("call %s: %w", name, err)
	}
	_ = res.Clear()
	return nil
}

func getInt(d *ole.IDispatch, name string) (int, error) {
	res, err := oleutil.GetProperty(d, name)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", name, err)
	}
	defer func() { _ = res.Clear() }()
	switch n := res.Value().(type) {
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("get %s: unexpected %T", name, n)
	}
}
