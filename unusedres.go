// Package unusedres finds resources that a MediaWiki extension or skin
// declares but no longer uses.
//
// Three checks are provided:
//
//   - CheckCSS reports class names selected in stylesheets that no source
//     file references, and class names referenced in markup that no
//     stylesheet declares.
//   - CheckMessages reports message keys in the base-locale catalogs that
//     no source file, catalog value or descriptor-derived key uses.
//   - CheckModuleMessages reports, per ResourceLoader module, messages the
//     module loads but its scripts never use, and messages its scripts use
//     but the module does not load.
//
// References are matched on identifier boundaries, so "foo-bar" is not
// found inside "foo-barbaz". Unused identifiers can optionally be traced
// to the last commit that added or removed them:
//
//	result, err := unusedres.CheckMessages(ctx, unusedres.MessagesConfig{
//		Corpus: unusedres.Corpus{
//			Root:          root,
//			ResourceFiles: []string{"**/en.json"},
//			SourceFiles:   []string{"**/{src,resources,includes,modules}/**/*.{js,php,vue,html}"},
//		},
//		Runtime: unusedres.Runtime{Searcher: searcher},
//	})
//	unusedres.WriteMessagesReport(os.Stdout, result, unusedres.ReportOptions{})
//
// The cmd directory holds one binary per check: unused-css,
// unused-messages and unloaded-messages.
package unusedres
