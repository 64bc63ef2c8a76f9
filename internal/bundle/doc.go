// Package bundle loads changelog bundle descriptors into validated
// changelog.Bundle values and creates new descriptors from a directory of
// entry files.
//
// A descriptor lists the products a release covers and its entries. Each
// entry is either written inline or referenced by file name and checksum:
//
//	products:
//	  - product: elasticsearch
//	    target: 9.3.0
//	    lifecycle: ga
//	entries:
//	  - file:
//	      name: 1234-allocation-fix.yaml
//	      checksum: 2fd4e1c67a2d28fced849ee1bb76e7391b93eb12
//	  - title: Inline entry
//	    type: enhancement
//	    products: [{product: elasticsearch, target: 9.3.0}]
//
// Every problem found while loading is reported to a diag.Collector. Loading
// keeps going after an Error so one run reports as much as possible; the
// caller checks ErrInvalidBundles to decide whether to stop.
package bundle
