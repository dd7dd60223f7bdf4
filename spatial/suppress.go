package spatial

// Suppression thresholds: a shape is demoted to icon_bg when it strongly
// overlaps a badge icon in the same group scope and is of comparable size.
const (
	suppressMinIoU   = 0.55
	suppressMinRatio = 0.4
	suppressMaxRatio = 1.6
)

// SuppressIconBackgrounds relabels decorative background shapes sitting
// beneath badge icons from shape to icon_bg, in place. Components are
// partitioned by group scope first; an icon never suppresses a shape in a
// different group. The test is greedy and pairwise: any qualifying icon
// demotes a shape, and one icon may demote several shapes. No components
// are added or removed.
func SuppressIconBackgrounds(items []Component) {
	byGroup := make(map[string][]int)
	for i, c := range items {
		key := ""
		if c.GroupID != nil {
			key = *c.GroupID
		}
		byGroup[key] = append(byGroup[key], i)
	}

	for _, idxs := range byGroup {
		var icons, shapes []int
		for _, i := range idxs {
			switch items[i].Type {
			case TypeIcon:
				icons = append(icons, i)
			case TypeShape:
				shapes = append(shapes, i)
			}
		}
		if len(icons) == 0 || len(shapes) == 0 {
			continue
		}

		for _, ii := range icons {
			ibox := items[ii].BBoxRel
			iarea := ibox.Area()
			for _, sj := range shapes {
				sbox := items[sj].BBoxRel
				ratio := sbox.Area() / iarea
				if IoU(ibox, sbox) >= suppressMinIoU && ratio >= suppressMinRatio && ratio <= suppressMaxRatio {
					items[sj].Type = TypeIconBG
				}
			}
		}
	}
}
