package categorize

import "github.com/standardbeagle/docnav/internal/types"

// OtherCategory is the catch-all category of the platform table
const OtherCategory types.Identifier = "platform:other"

var platformTitles = map[types.Identifier]string{
	"platform:a11y":       "Accessibility",
	"platform:core":       "Core",
	"platform:devel":      "Developer Tools",
	"platform:formats":    "File Formats",
	"platform:multimedia": "Multimedia",
	"platform:languages":  "Languages",
	"platform:networking": "Networking",
	"platform:comm":       "Communication",
	"platform:os":         "Operating System",
	"platform:pkg":        "Packaging",
	"platform:plugins":    "Plugins",
	"platform:graphics":   "Graphics",
	"platform:security":   "Security",
	"platform:text":       "Text and Spelling",
	"platform:legacy":     "Legacy",
	"platform:other":      "Other",
}

var platformMapping = map[types.Identifier]types.Identifier{
	"gir:Caribou-1.0": "platform:a11y",
	"gir:Cally-1.0":   "platform:a11y",
	"gir:Atk-1.0":     "platform:a11y",
	"gir:Atspi-2.0":   "platform:a11y",

	"gir:GObject-2.0": "platform:core",
	"gir:GLib-2.0":    "platform:core",
	"gir:GModule-2.0": "platform:core",
	"gir:Gio-2.0":     "platform:core",

	"gir:Ggit-1.0":    "platform:devel",
	"gir:Gladeui-2.0": "platform:devel",
	"gir:Vte-2.91":    "platform:devel",

	"gir:GtkSource-3.0":  "platform:text",
	"gir:GtkSpell-3.0":   "platform:text",
	"gir:Pango-1.0":      "platform:text",
	"gir:PangoCairo-1.0": "platform:text",
	"gir:PangoXft-1.0":   "platform:text",
	"gir:PangoFT2-1.0":   "platform:text",

	"gir:Gst-0.10":           "platform:legacy",
	"gir:GstBase-0.10":       "platform:legacy",
	"gir:GstNet-0.10":        "platform:legacy",
	"gir:GstController-0.10": "platform:legacy",
	"gir:GstCheck-0.10":      "platform:legacy",
	"gir:GstAudio-0.10":      "platform:legacy",
	"gir:GstFft-0.10":        "platform:legacy",
	"gir:GstInterfaces-0.10": "platform:legacy",
	"gir:GstNetbuffer-0.10":  "platform:legacy",
	"gir:GstPbutils-0.10":    "platform:legacy",
	"gir:GstRiff-0.10":       "platform:legacy",
	"gir:GstRtp-0.10":        "platform:legacy",
	"gir:GstRtsp-0.10":       "platform:legacy",
	"gir:GstSdp-0.10":        "platform:legacy",
	"gir:GstTag-0.10":        "platform:legacy",
	"gir:GstVideo-0.10":      "platform:legacy",
	"gir:Cogl-1.0":           "platform:legacy",
	"gir:Gtk-2.0":            "platform:legacy",
	"gir:Gdk-2.0":            "platform:legacy",
	"gir:WebKit-3.0":         "platform:legacy",
	"gir:JavaScriptCore-3.0": "platform:legacy",
	"gir:GooCanvas-1.0":      "platform:legacy",

	"gir:Goa-1.0":          "platform:comm",
	"gir:Camel-1.2":        "platform:comm",
	"gir:EBook-1.2":        "platform:comm",
	"gir:EBookContext-1.2": "platform:comm",
	"gir:EDataService-1.2": "platform:comm",

	"gir:Cogl-2.0":          "platform:multimedia",
	"gir:Gst-1.0":           "platform:multimedia",
	"gir:GstAllocators-1.0": "platform:multimedia",
	"gir:GstApp-1.0":        "platform:multimedia",
	"gir:GstAudio-1.0":      "platform:multimedia",
	"gir:GstBase-1.0":       "platform:multimedia",
	"gir:GstCheck-1.0":      "platform:multimedia",
	"gir:GstController-1.0": "platform:multimedia",
	"gir:GstFft-1.0":        "platform:multimedia",
	"gir:GstGL-1.0":         "platform:multimedia",
	"gir:GstInsertBin-1.0":  "platform:multimedia",
	"gir:GstMpegts-1.0":     "platform:multimedia",
	"gir:GstNet-1.0":        "platform:multimedia",
	"gir:GstPbutils-1.0":    "platform:multimedia",
	"gir:GstPlayer-1.0":     "platform:multimedia",
	"gir:GstRtp-1.0":        "platform:multimedia",
	"gir:GstRtsp-1.0":       "platform:multimedia",
	"gir:GstSdp-1.0":        "platform:multimedia",
	"gir:GstTag-1.0":        "platform:multimedia",
	"gir:GstVideo-1.0":      "platform:multimedia",

	"gir:Rsvg-2.0":       "platform:graphics",
	"gir:Poppler-0.18":   "platform:graphics",
	"gir:Gdl-3":          "platform:graphics",
	"gir:Gdk-3.0":        "platform:graphics",
	"gir:GdkX11-3.0":     "platform:graphics",
	"gir:GdkPixbuf-2.0":  "platform:graphics",
	"gir:Gtk-3.0":        "platform:graphics",
	"gir:xlib-2.0":       "platform:graphics",
	"gir:xrandr-1.3":     "platform:graphics",
	"gir:xft-2.0":        "platform:graphics",
	"gir:xfixes-4.0":     "platform:graphics",
	"gir:freetype2-2.0":  "platform:graphics",
	"gir:fontconfig-2.0": "platform:graphics",
	"gir:cairo-1.0":      "platform:graphics",
	"gir:GL-1.0":         "platform:graphics",
	"gir:Clutter-1.0":    "platform:graphics",
	"gir:ClutterGdk-1.0": "platform:graphics",
	"gir:ClutterX11-1.0": "platform:graphics",
	"gir:GooCanvas-2.0":  "platform:graphics",

	"gir:GnomeBluetooth-1.0":      "platform:networking",
	"gir:DBus-1.0":                "platform:networking",
	"gir:DBusGLib-1.0":            "platform:networking",
	"gir:Soup-2.4":                "platform:networking",
	"gir:SoupGNOME-2.4":           "platform:networking",
	"gir:WebKit2-4.0":             "platform:networking",
	"gir:WebKit2WebExtension-4.0": "platform:networking",
	"gir:TelepathyGLib-0.12":      "platform:networking",
	"gir:GMime-2.6":               "platform:networking",

	"gir:JavaScriptCore-4.0": "platform:languages",
	"gir:GIRepository-2.0":   "platform:languages",
	"gir:Gee-0.8":            "platform:languages",

	"gir:Gck-1":            "platform:security",
	"gir:CryptUI-0.0":      "platform:security",
	"gir:Secret-1":         "platform:security",
	"gir:Polkit-1.0":       "platform:security",
	"gir:PolkitAgent-1.0":  "platform:security",
	"gir:Gcr-3":            "platform:security",
	"gir:GcrUi-3":          "platform:security",
	"gir:GnomeKeyring-1.0": "platform:security",

	"gir:Json-1.0":    "platform:formats",
	"gir:libxml2-2.0": "platform:formats",
	"gir:GCab-1.0":    "platform:formats",

	"gir:Peas-1.0":    "platform:plugins",
	"gir:PeasGtk-1.0": "platform:plugins",

	"gir:GSystem-1.0": "platform:os",
	"gir:OSTree-1.0":  "platform:os",
	"gir:win32-1.0":   "platform:os",
	"gir:GUdev-1.0":   "platform:os",

	"gir:XdgApp-1.0":           "platform:pkg",
	"gir:Flatpak-1.0":          "platform:pkg",
	"gir:AppStream-1.0":        "platform:pkg",
	"gir:AppStreamBuilder-1.0": "platform:pkg",
	"gir:AppStreamGlib-1.0":    "platform:pkg",
}

// PlatformTable returns the built-in table that groups GObject
// introspection namespaces into platform areas.
func PlatformTable() *Table {
	t := NewTable()
	for k, v := range platformTitles {
		t.Titles[k] = v
	}
	for k, v := range platformMapping {
		t.Mapping[k] = v
	}
	return t
}
