// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/uiframe/lib/autobind"
	"github.com/bureau-foundation/uiframe/lib/frame"
	"github.com/bureau-foundation/uiframe/lib/layer"
	"github.com/bureau-foundation/uiframe/lib/scene"
	"github.com/bureau-foundation/uiframe/lib/version"
	"github.com/bureau-foundation/uiframe/lib/view"
)

const (
	kindHome     view.Kind = "home"
	kindSettings view.Kind = "settings"
	kindProfile  view.Kind = "profile"
	kindConfirm  view.Kind = "confirm"
	kindAbout    view.Kind = "about"
	kindAdvanced view.Kind = "advanced"
	kindClock    view.Kind = "clock"
)

// windowLayer takes its order from the configuration's layer list.
var windowLayer = layer.Named("window")

// profileNames is the rotation used by the Rename button.
var profileNames = []string{"operator", "observer", "maintainer"}

// factory creates the demo's views. Click handlers reach the engine
// through app.
func factory(app *app) scene.Factory {
	return scene.Factory{
		kindHome:     func() view.View { return &homeView{app: app} },
		kindSettings: func() view.View { return &settingsView{app: app} },
		kindProfile:  func() view.View { return &profileView{app: app} },
		kindConfirm:  func() view.View { return &confirmView{app: app} },
		kindAbout:    func() view.View { return &aboutView{app: app} },
		kindAdvanced: func() view.View { return &advancedView{} },
		kindClock:    func() view.View { return &clockView{app: app} },
	}
}

// descriptors registers every kind with buttons, timers or a
// classification. The advanced pane is a plain sub-view and needs no
// descriptor.
func descriptors() []frame.Descriptor {
	return []frame.Descriptor{
		{
			// Home keeps its visit count across navigation.
			Kind:   kindHome,
			Panel:  true,
			Retain: true,
			Buttons: []autobind.Button{
				autobind.OnClick("OnSettings", (*homeView).OnSettings),
				autobind.OnClick("OnProfile", (*homeView).OnProfile),
				autobind.OnClick("OnAbout", (*homeView).OnAbout),
				autobind.OnClick("OnQuit", (*homeView).OnQuit),
			},
		},
		{
			Kind:  kindSettings,
			Panel: true,
			Buttons: []autobind.Button{
				autobind.OnClick("OnQuieter", (*settingsView).OnQuieter),
				autobind.OnClick("OnLouder", (*settingsView).OnLouder),
				autobind.OnClick("OnAdvanced", (*settingsView).OnAdvanced),
				autobind.OnClick("OnBack", (*settingsView).OnBack),
			},
		},
		{
			Kind:  kindProfile,
			Panel: true,
			Buttons: []autobind.Button{
				autobind.OnClick("OnRename", (*profileView).OnRename),
				autobind.OnClick("OnSettings", (*profileView).OnSettings),
				autobind.OnClick("OnBack", (*profileView).OnBack),
			},
		},
		{
			Kind: kindClock,
			Timers: []autobind.Timer{
				autobind.Every("Tick", time.Second, (*clockView).Tick),
			},
		},
		{
			Kind:   kindConfirm,
			Window: &windowLayer,
			Buttons: []autobind.Button{
				autobind.OnClick("OnOk", (*confirmView).OnOk),
				autobind.OnClick("OnCancel", (*confirmView).OnCancel),
			},
		},
		{
			Kind:   kindAbout,
			Window: &windowLayer,
			Retain: true,
			Buttons: []autobind.Button{
				autobind.OnClick("OnClose", (*aboutView).OnClose),
			},
		},
	}
}

type homeData struct {
	view.Payload
}

// homeView greets the operator and says which panel it was returned
// from.
type homeView struct {
	view.Component[*homeData]
	app *app

	greeting *scene.Element
	visits   *scene.Element
	shown    int
}

func (v *homeView) Kind() view.Kind { return kindHome }

func (v *homeView) Mount(element *scene.Element) {
	v.greeting = element.Find("Greeting")
	v.visits = element.Find("Visits")
}

func (v *homeView) OnRefresh(context.Context) error {
	v.shown++
	greeting := "Welcome."
	if v.Data != nil && v.Data.Sender() != "" {
		greeting = fmt.Sprintf("Back from %s.", v.Data.Sender())
	}
	v.greeting.SetText(greeting)
	v.visits.SetText(fmt.Sprintf("Refreshed %d times", v.shown))
	return nil
}

func (v *homeView) OnSettings() { v.app.show(kindSettings, &settingsData{Volume: 5}) }

func (v *homeView) OnProfile() { v.app.show(kindProfile, &profileData{Name: profileNames[0]}) }

func (v *homeView) OnAbout() { v.app.show(kindAbout, nil) }

func (v *homeView) OnQuit() {
	v.app.show(kindConfirm, &confirmData{Question: "Quit the demo?", Confirm: v.app.requestQuit})
}

type settingsData struct {
	view.Payload
	Volume int
}

// settingsView edits a volume level through Refresh and toggles an
// advanced sub-view.
type settingsView struct {
	view.Component[*settingsData]
	app *app

	origin   *scene.Element
	volume   *scene.Element
	advanced *scene.Element

	// level mirrors Data.Volume for click handlers, which run without
	// the engine lock.
	level atomic.Int64
}

func (v *settingsView) Kind() view.Kind { return kindSettings }

func (v *settingsView) Mount(element *scene.Element) {
	v.origin = element.Find("Origin")
	v.volume = element.Find("Volume")
	v.advanced = element.Find("AdvancedPane")
}

func (v *settingsView) OnRefresh(context.Context) error {
	volume := 0
	origin := ""
	if v.Data != nil {
		volume = v.Data.Volume
		origin = string(v.Data.Sender())
	}
	v.level.Store(int64(volume))
	v.volume.SetText(fmt.Sprintf("Volume: %d", volume))
	if origin != "" {
		v.origin.SetText("Opened from " + origin)
	} else {
		v.origin.SetText("")
	}
	return nil
}

func (v *settingsView) OnQuieter() { v.setVolume(int(v.level.Load()) - 1) }

func (v *settingsView) OnLouder() { v.setVolume(int(v.level.Load()) + 1) }

func (v *settingsView) setVolume(volume int) {
	volume = min(max(volume, 0), 10)
	v.app.refresh(kindSettings, &settingsData{Volume: volume})
}

func (v *settingsView) OnAdvanced() {
	pane := v.advanced.View()
	if v.advanced.Active() {
		v.app.hideView(pane)
		return
	}
	v.app.showView(pane)
}

func (v *settingsView) OnBack() { v.app.back() }

// advancedView is a sub-view of settings. It counts how often it has
// been shown.
type advancedView struct {
	detail *scene.Element
	shown  int
}

func (v *advancedView) Kind() view.Kind { return kindAdvanced }

func (v *advancedView) Mount(element *scene.Element) { v.detail = element.Find("Detail") }

func (v *advancedView) OnShow() {
	v.shown++
	v.detail.SetText(fmt.Sprintf("Advanced options, shown %d times", v.shown))
}

type profileData struct {
	view.Payload
	Name string
}

// profileView shows a name and a live clock sub-view.
type profileView struct {
	view.Component[*profileData]
	app *app

	name    *scene.Element
	current atomic.Int64
}

func (v *profileView) Kind() view.Kind { return kindProfile }

func (v *profileView) Mount(element *scene.Element) { v.name = element.Find("Name") }

func (v *profileView) OnRefresh(context.Context) error {
	name := profileNames[0]
	if v.Data != nil && v.Data.Name != "" {
		name = v.Data.Name
	}
	for index, candidate := range profileNames {
		if candidate == name {
			v.current.Store(int64(index))
		}
	}
	v.name.SetText("Signed in as " + name)
	return nil
}

func (v *profileView) OnRename() {
	next := (int(v.current.Load()) + 1) % len(profileNames)
	v.app.refresh(kindProfile, &profileData{Name: profileNames[next]})
}

func (v *profileView) OnSettings() { v.app.show(kindSettings, &settingsData{Volume: 3}) }

func (v *profileView) OnBack() { v.app.back() }

// clockView writes the time every second while its panel is bound.
type clockView struct {
	app   *app
	time  *scene.Element
	ticks atomic.Int64
}

func (v *clockView) Kind() view.Kind { return kindClock }

func (v *clockView) Mount(element *scene.Element) { v.time = element.Find("Time") }

func (v *clockView) OnBind() { v.update() }

func (v *clockView) Tick() {
	v.ticks.Add(1)
	v.update()
}

func (v *clockView) update() {
	v.time.SetText(v.app.clock.Now().Format(time.TimeOnly))
}

type confirmData struct {
	view.Payload
	Question string

	// Confirm runs when OK is clicked, before the window hides.
	Confirm func()
}

// confirmView asks a question in the window layer.
type confirmView struct {
	view.Component[*confirmData]
	app *app

	question *scene.Element
	pending  atomic.Pointer[confirmData]
}

func (v *confirmView) Kind() view.Kind { return kindConfirm }

func (v *confirmView) Mount(element *scene.Element) { v.question = element.Find("Question") }

func (v *confirmView) OnRefresh(context.Context) error {
	if v.Data != nil {
		v.question.SetText(v.Data.Question)
		v.pending.Store(v.Data)
	}
	return nil
}

func (v *confirmView) OnOk() {
	if data := v.pending.Load(); data != nil && data.Confirm != nil {
		data.Confirm()
	}
	v.app.hide(kindConfirm)
}

func (v *confirmView) OnCancel() { v.app.hide(kindConfirm) }

// aboutView is retained between showings.
type aboutView struct {
	app *app

	version *scene.Element
	opened  *scene.Element
	count   int
}

func (v *aboutView) Kind() view.Kind { return kindAbout }

func (v *aboutView) Mount(element *scene.Element) {
	v.version = element.Find("Version")
	v.opened = element.Find("Opened")
}

func (v *aboutView) OnCreate(context.Context) error {
	v.version.SetText("uiframe " + version.Info())
	return nil
}

func (v *aboutView) OnShow() {
	v.count++
	v.opened.SetText(fmt.Sprintf("Opened %d times", v.count))
}

func (v *aboutView) OnClose() { v.app.hide(kindAbout) }
