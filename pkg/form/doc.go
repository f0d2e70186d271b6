// Package form implements the declarative form model the admin handlers are
// built on: typed fields bound to configuration paths, ordered sections,
// visibility preconditions, a validation engine, and the save-callback
// protocol that turns validated input into configuration patches.
//
// A form is a per-request object. Handlers construct it from a freshly
// fetched configuration snapshot, optionally with the request's submitted
// data, then validate and save:
//
//	frm := form.New("wan", data, form.WithTree(tree))
//	main := frm.AddSection("set_wan", "WAN", "...")
//	main.AddField(&form.Field{
//		Name:       "ipaddr",
//		Kind:       form.KindText,
//		SourcePath: "uci.network.wan.ipaddr",
//		Required:   true,
//		Validators: []validators.Validator{validators.IPv4()},
//	}).Requires("proto", "static")
//	frm.AddCallback(buildPatch)
//
//	if frm.Validate() {
//		result, err := frm.Save(ctx)
//		...
//	}
package form
