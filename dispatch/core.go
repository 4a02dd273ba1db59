package dispatch

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/native"
)

func coreEntries() []*Entry {
	return []*Entry{
		{
			Name:   "Init",
			Family: FamilyCore,
			Params: []Param{param("flags", wit.U32{})},
			Affine: true,
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.Init(c.u32(0))
			},
		},
		{
			Name:   "Quit",
			Family: FamilyCore,
			Affine: true,
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.Quit()
			},
		},
		{
			Name:   "WasInit",
			Family: FamilyCore,
			Params: []Param{param("flags", wit.U32{})},
			Result: wit.U32{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.WasInit(c.u32(0)), nil
			},
		},
		{
			Name:   "GetError",
			Family: FamilyCore,
			Result: wit.String{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetError(), nil
			},
		},
		{
			Name:   "ClearError",
			Family: FamilyCore,
			Result: wit.Bool{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.ClearError(), nil
			},
		},
		{
			Name:   "GetVersion",
			Family: FamilyCore,
			Result: wit.S32{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetVersion(), nil
			},
		},
		{
			Name:   "GetPlatform",
			Family: FamilyCore,
			Result: wit.String{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetPlatform(), nil
			},
		},
		{
			Name:   "GetTicks",
			Family: FamilyCore,
			Result: wit.U64{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetTicks(), nil
			},
		},
		{
			Name:   "GetConstants",
			Family: FamilyCore,
			invoke: func(c *call) (any, error) {
				return native.Constants(), nil
			},
		},
	}
}
