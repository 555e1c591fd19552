// Package rules turns configured rules into runnable ones.
//
// A rule names the locations to walk, the filters selecting resources and
// the actions applied to every match:
//
//	rules:
//	  - name: Old screenshots
//	    locations:
//	      - path: ~/Desktop
//	        exclude_dirs: [keep]
//	    subfolders: true
//	    filters:
//	      - name: {startswith: Screenshot}
//	      - lastmodified: {days: 30}
//	      - not extension: gif
//	    actions:
//	      - trash
//
// Filters and actions are written either as a bare name or as a mapping
// from name to arguments. A filter name prefixed with "not " is inverted.
//
// Location depths are counted from zero for the direct children of the
// location. Without `subfolders: true` only direct children are visited
// unless `max_depth` says otherwise.
package rules
