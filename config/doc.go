// Package config loads loader configuration from defaults, an optional YAML
// file and BINDINGS_* environment variables, in increasing precedence.
//
//	loader:
//	  dir: /opt/app            # local artifacts; default: executable dir
//	  prefix: bindings         # <prefix>.<id><extension>
//	  extension: .node
//	  packagePaths: [/opt/app/packages]
//	  linkerPath: /usr/bin/ldd # read for the musl marker
//	repeater:
//	  interval: 500ms
//	logging:
//	  level: info              # debug | info | warn | error
//	  format: console          # console | json
package config
