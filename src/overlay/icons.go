package overlay

const svgHead = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="24" height="24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round">`

const (
	iconArrow     = svgHead + `<path d="M5 3 L19 12 L12 13 L9 20 Z" fill="currentColor"/></svg>`
	iconPen       = svgHead + `<path d="M16 3 L21 8 L8 21 L3 21 L3 16 Z"/><path d="M13 6 L18 11"/></svg>`
	iconEraser    = svgHead + `<path d="M7 21 L3 17 L14 6 L20 12 L11 21 Z"/><path d="M7 21 L21 21"/><path d="M9 11 L15 17"/></svg>`
	iconClear     = svgHead + `<path d="M4 7 L20 7"/><path d="M6 7 L7 21 L17 21 L18 7"/><path d="M9 7 L9 4 L15 4 L15 7"/></svg>`
	iconSpotlight = svgHead + `<circle cx="12" cy="12" r="4"/><path d="M12 2 L12 5"/><path d="M12 19 L12 22"/><path d="M2 12 L5 12"/><path d="M19 12 L22 12"/></svg>`
	iconExit      = svgHead + `<path d="M6 6 L18 18"/><path d="M18 6 L6 18"/></svg>`
	iconLeft      = svgHead + `<path d="M15 5 L8 12 L15 19"/></svg>`
	iconRight     = svgHead + `<path d="M9 5 L16 12 L9 19"/></svg>`
	iconUp        = svgHead + `<path d="M5 15 L12 8 L19 15"/></svg>`
	iconDown      = svgHead + `<path d="M5 9 L12 16 L19 9"/></svg>`
)
