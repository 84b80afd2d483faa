// Package piplkit decompiles After Effects PIPL (Plug-in Property List)
// resources from the three containers plugins ship in.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	piplkit/             Root package with the Decompile facade
//	├── resfork/         Classic Mac resource-fork container parsing
//	├── aex/             Windows PE (.aex) resource parsing
//	├── rcp/             Resource-compiler script text parsing
//	├── detect/          Container format sniffing
//	├── pipl/            Canonical property model, normalization, decoders
//	├── report/          Listing, summary, and Config.h style rendering
//	├── errors/          Structured error types for debugging
//	└── internal/binread Bounds-checked reads over raw buffers
//
// # Quick Start
//
// Decompile a plugin file:
//
//	res, err := piplkit.DecompileFile("DeepGlow.aex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(res.Descriptor.Name)
//	res.Report().WriteListing(os.Stdout)
//
// Each parse owns its input buffer exclusively; results never share state
// across files, so concurrent decompiles need no coordination beyond the
// read-only lookup tables, which are safe to share.
package piplkit
