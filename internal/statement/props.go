package statement

import (
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func propsText(size float64, style fontstyle.Type, a align.Type) props.Text {
	return props.Text{Size: size, Style: style, Align: a, Top: 1}
}
