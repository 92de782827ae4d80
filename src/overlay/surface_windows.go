//go:build windows

package overlay

import (
	"fmt"
	"image"
	"log"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32DLL                    = windows.NewLazySystemDLL("user32.dll")
	procUpdateLayeredWindow      = user32DLL.NewProc("UpdateLayeredWindow")
	procAllowSetForegroundWindow = user32DLL.NewProc("AllowSetForegroundWindow")
)

const (
	ulwAlpha        = 0x00000002
	acSrcAlpha      = 0x01
	wmMouseActivate = 0x0021
	maNoActivate    = 3
	wsExNoActivate  = 0x08000000
	wsExLayered     = 0x00080000
	wmInvoke        = win.WM_USER + 1
)

type blendFunction struct {
	BlendOp             byte
	BlendFlags          byte
	SourceConstantAlpha byte
	AlphaFormat         byte
}

// mouseKind is the subset of mouse messages a surface reacts to.
type mouseKind int

const (
	mouseDown mouseKind = iota
	mouseMove
	mouseUp
	mouseSecondaryDown
)

// surfaceHandler receives input for one surface on the window thread.
type surfaceHandler interface {
	mouse(kind mouseKind, local, global image.Point)
	key(vk uintptr)
	timer(id uintptr)
}

// surface is a per-pixel-alpha popup window fed from an image.RGBA.
type surface struct {
	hwnd      win.HWND
	name      string
	bounds    image.Rectangle
	shown     bool
	activates bool
	handler   surfaceHandler
}

// invoke drains calls marshalled onto the window thread.
var invoke func()

// surfaces maps window handles to their surface. Only the window thread
// touches it.
var surfaces = map[win.HWND]*surface{}

var surfaceClass = syscall.StringToUTF16Ptr("KazuhaOverlaySurface")

func registerSurfaceClass() error {
	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		LpfnWndProc:   syscall.NewCallback(surfaceWndProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
		LpszClassName: surfaceClass,
	}
	if win.RegisterClassEx(&wc) == 0 {
		return fmt.Errorf("register overlay window class failed")
	}
	return nil
}

// newSurface creates a hidden topmost tool window. Non-activating surfaces
// never take focus away from the slideshow.
func newSurface(name string, activates bool, h surfaceHandler) (*surface, error) {
	exStyle := uint32(win.WS_EX_TOPMOST | win.WS_EX_TOOLWINDOW | wsExLayered)
	if !activates {
		exStyle |= wsExNoActivate
	}
	hwnd := win.CreateWindowEx(
		exStyle,
		surfaceClass,
		syscall.StringToUTF16Ptr(name),
		win.WS_POPUP,
		0, 0, 1, 1,
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("create %s window failed", name)
	}
	s := &surface{hwnd: hwnd, name: name, activates: activates, handler: h}
	surfaces[hwnd] = s
	return s, nil
}

// present uploads img and moves the window to at. The window is shown if
// it was hidden.
func (s *surface) present(img *image.RGBA, at image.Point) {
	if err := s.update(img, at); err != nil {
		log.Printf("overlay: %s: %v", s.name, err)
		return
	}
	s.bounds = image.Rectangle{Min: at, Max: at.Add(img.Bounds().Size())}
	if !s.shown {
		cmd := int32(win.SW_SHOWNOACTIVATE)
		if s.activates {
			cmd = win.SW_SHOW
		}
		win.ShowWindow(s.hwnd, cmd)
		s.shown = true
	}
}

func (s *surface) hide() {
	if !s.shown {
		return
	}
	win.ShowWindow(s.hwnd, win.SW_HIDE)
	s.shown = false
}

func (s *surface) destroy() {
	delete(surfaces, s.hwnd)
	win.DestroyWindow(s.hwnd)
}

// update copies img into a top-down 32bpp DIB and hands it to
// UpdateLayeredWindow. image.RGBA is already premultiplied; only the
// channel order differs.
func (s *surface) update(img *image.RGBA, at image.Point) error {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return fmt.Errorf("empty image")
	}

	screenDC := win.GetDC(0)
	defer win.ReleaseDC(0, screenDC)
	memDC := win.CreateCompatibleDC(screenDC)
	defer win.DeleteDC(memDC)

	bi := win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
		BiWidth:       int32(w),
		BiHeight:      -int32(h),
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: win.BI_RGB,
	}
	var bits unsafe.Pointer
	hBitmap := win.CreateDIBSection(memDC, &bi, win.DIB_RGB_COLORS, &bits, 0, 0)
	if hBitmap == 0 {
		return fmt.Errorf("CreateDIBSection failed")
	}
	defer win.DeleteObject(win.HGDIOBJ(hBitmap))
	old := win.SelectObject(memDC, win.HGDIOBJ(hBitmap))
	defer win.SelectObject(memDC, old)

	dst := unsafe.Slice((*byte)(bits), w*h*4)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		out := dst[y*w*4 : (y+1)*w*4]
		for i := 0; i < len(row); i += 4 {
			out[i] = row[i+2]
			out[i+1] = row[i+1]
			out[i+2] = row[i]
			out[i+3] = row[i+3]
		}
	}

	dstPt := win.POINT{X: int32(at.X), Y: int32(at.Y)}
	size := win.SIZE{CX: int32(w), CY: int32(h)}
	srcPt := win.POINT{}
	blend := blendFunction{SourceConstantAlpha: 255, AlphaFormat: acSrcAlpha}
	ret, _, err := procUpdateLayeredWindow.Call(
		uintptr(s.hwnd),
		uintptr(screenDC),
		uintptr(unsafe.Pointer(&dstPt)),
		uintptr(unsafe.Pointer(&size)),
		uintptr(memDC),
		uintptr(unsafe.Pointer(&srcPt)),
		0,
		uintptr(unsafe.Pointer(&blend)),
		ulwAlpha,
	)
	if ret == 0 {
		return fmt.Errorf("UpdateLayeredWindow: %v", err)
	}
	return nil
}

func lParamPoint(lParam uintptr) image.Point {
	return image.Pt(int(int16(win.LOWORD(uint32(lParam)))), int(int16(win.HIWORD(uint32(lParam)))))
}

func cursorPos() image.Point {
	var pt win.POINT
	win.GetCursorPos(&pt)
	return image.Pt(int(pt.X), int(pt.Y))
}

func surfaceWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	s := surfaces[hwnd]
	if s == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case wmInvoke:
		if invoke != nil {
			invoke()
		}
		return 0
	case wmMouseActivate:
		if !s.activates {
			return maNoActivate
		}
	case win.WM_NCHITTEST:
		return uintptr(win.HTCLIENT)
	case win.WM_LBUTTONDOWN:
		win.SetCapture(hwnd)
		s.handler.mouse(mouseDown, lParamPoint(lParam), cursorPos())
		return 0
	case win.WM_MOUSEMOVE:
		s.handler.mouse(mouseMove, lParamPoint(lParam), cursorPos())
		return 0
	case win.WM_LBUTTONUP:
		win.ReleaseCapture()
		s.handler.mouse(mouseUp, lParamPoint(lParam), cursorPos())
		return 0
	case win.WM_RBUTTONDOWN:
		s.handler.mouse(mouseSecondaryDown, lParamPoint(lParam), cursorPos())
		return 0
	case win.WM_KEYDOWN:
		s.handler.key(wParam)
		return 0
	case win.WM_TIMER:
		s.handler.timer(wParam)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}
