//go:build tinygo && dspic33fj256gp710

package main

import "pic24io/targets/chips"

var chip = chips.DSPIC33FJ256GP710
