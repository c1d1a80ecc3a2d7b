// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package autobind wires a view's declared click and timer handlers
// to its widgets and to the timer scheduler.
//
// Each view kind registers a [Table] once:
//
//	autobind.Table{
//		Buttons: []autobind.Button{
//			autobind.OnClick("OnConfirm", (*Settings).OnConfirm),
//			autobind.OnClick("OnBack", (*Settings).Close).WithTarget("BackArrow"),
//		},
//		Timers: []autobind.Timer{
//			autobind.Every("OnClock", time.Second, (*Settings).OnClock),
//		},
//	}
//
// A button handler named OnConfirm binds to the widget named @Confirm
// (compared case-insensitively) found in the view's own visual
// subtree; subtrees of nested views are not searched. WithTarget
// replaces the convention with an exact widget name. A handler whose
// widget is missing is skipped without error.
//
// The [Binder] follows the lifecycle. On create it resolves widgets
// and records timer specs, discarding anything recorded for a previous
// incarnation of the node. On bind it attaches click callbacks and
// starts timers owned by the node. On unbind it detaches the callbacks
// and cancels the timers. On died it forgets the node.
package autobind
