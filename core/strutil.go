package core

// utoa formats an unsigned integer without the fmt package, which is too
// heavy for the firmware image.
func utoa(n uint64) string {
	var buf [20]byte // max digits of a uint64
	pos := len(buf)
	for {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return string(buf[pos:])
}

// deadlineString formats a deadline, spelling out Infinite
func deadlineString(deadline uint64) string {
	if deadline == Infinite {
		return "inf"
	}
	return utoa(deadline)
}
