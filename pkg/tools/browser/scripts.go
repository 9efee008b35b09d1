package browser

// Page-side JavaScript used by the tools. Every script is a function that
// receives caller data through its argument; values are never spliced
// into the script text.

// highlightScript draws a numbered semi-transparent box at the given
// position. Expects {x, y, number, color}.
const highlightScript = `args => {
	const box = document.createElement('div');
	box.style.position = 'absolute';
	box.style.left = args.x + 'px';
	box.style.top = args.y + 'px';
	box.style.width = '30px';
	box.style.height = '30px';
	box.style.backgroundColor = args.color;
	box.style.opacity = '0.5';
	box.style.border = '2px solid ' + args.color;
	box.style.borderRadius = '5px';
	box.style.display = 'flex';
	box.style.alignItems = 'center';
	box.style.justifyContent = 'center';
	box.style.color = 'white';
	box.style.fontWeight = 'bold';
	box.style.zIndex = '10000';
	box.style.pointerEvents = 'none';
	box.textContent = args.number;
	document.body.appendChild(box);
}`

// clearHighlightsScript removes every overlay the tools have drawn,
// including the selector debug dots, legend and tooltip.
const clearHighlightsScript = `() => {
	document.querySelectorAll("div[style*='z-index: 10000'], .selector-debug-box, .selector-debug-dot, .selector-legend, #selector-centered-tooltip").forEach(el => el.remove());
}`

// clickEventsScript fires the synthetic events frameworks listen for on
// the element under the clicked point. Expects {x, y}.
const clickEventsScript = `pos => {
	const element = document.elementFromPoint(pos.x, pos.y);
	if (element) {
		element.focus();
		element.click();
		element.dispatchEvent(new Event('change', { bubbles: true }));
		element.dispatchEvent(new Event('input', { bubbles: true }));
		element.dispatchEvent(new Event('blur', { bubbles: true }));
	}
}`

// Scroll one viewport height in either direction.
const (
	scrollDownScript = `() => window.scrollBy(0, window.innerHeight)`
	scrollUpScript   = `() => window.scrollBy(0, -window.innerHeight)`
)

// pageTextScript returns the rendered text of the page body.
const pageTextScript = `() => document.body.innerText`

// domOutlineScript walks the document tree down to the given depth and
// returns a nested outline of tags, ids, classes and key attributes.
// Scripts and comments are skipped; text nodes are clipped to 50 chars.
const domOutlineScript = `maxDepth => {
	function extractDomNode(node, depth) {
		if (depth > maxDepth) return "...";

		if (node.nodeType === 8 ||
			(node.tagName && node.tagName.toLowerCase() === 'script')) {
			return null;
		}

		if (node.nodeType === 3) {
			const text = node.textContent.trim();
			return text ? text.substring(0, 50) + (text.length > 50 ? "..." : "") : null;
		}

		if (node.nodeType === 1) {
			const result = {
				tag: node.tagName.toLowerCase(),
				id: node.id || undefined,
				classes: node.className ? Array.from(node.classList) : undefined,
			};

			if (node.hasAttribute('href')) result.href = node.getAttribute('href');
			if (node.hasAttribute('src')) result.src = node.getAttribute('src');
			if (node.hasAttribute('alt')) result.alt = node.getAttribute('alt');
			if (node.hasAttribute('title')) result.title = node.getAttribute('title');

			if (depth < maxDepth) {
				const children = [];
				for (const child of node.childNodes) {
					const childResult = extractDomNode(child, depth + 1);
					if (childResult) children.push(childResult);
				}
				if (children.length > 0) result.children = children;
			} else if (node.childNodes.length > 0) {
				result.children = "...";
			}

			return result;
		}

		return null;
	}

	return extractDomNode(document.documentElement, 0);
}`

// Extraction strategies for well-known patterns. Each returns at most 20
// matches.
var extractionStrategies = map[string]string{
	"product prices": `() => {
		const prices = [];
		const priceElements = document.querySelectorAll('.price, [class*="price"], [id*="price"], .product-price, .amount');
		priceElements.forEach(el => {
			prices.push({
				text: el.innerText.trim(),
				location: el.getBoundingClientRect()
			});
		});
		return prices.slice(0, 20);
	}`,
	"article headlines": `() => {
		const headlines = [];
		const headingElements = document.querySelectorAll('h1, h2, h3, .headline, .title, article h2, article h3');
		headingElements.forEach(el => {
			headlines.push({
				text: el.innerText.trim(),
				tag: el.tagName.toLowerCase()
			});
		});
		return headlines.slice(0, 20);
	}`,
	"navigation links": `() => {
		const links = [];
		const navLinks = document.querySelectorAll('nav a, header a, .navigation a, .menu a');
		navLinks.forEach(el => {
			links.push({
				text: el.innerText.trim(),
				href: el.getAttribute('href')
			});
		});
		return links.slice(0, 20);
	}`,
	"form fields": `() => {
		const fields = [];
		const formElements = document.querySelectorAll('input, textarea, select');
		formElements.forEach(el => {
			fields.push({
				tag: el.tagName.toLowerCase(),
				type: el.type || undefined,
				name: el.name || undefined,
				id: el.id || undefined,
				placeholder: el.placeholder || undefined
			});
		});
		return fields.slice(0, 20);
	}`,
}

// genericExtractionScript matches the pattern against element text, ids,
// classes and tag names. The pattern arrives as the function argument so
// arbitrary caller input cannot alter the script.
const genericExtractionScript = `pattern => {
	const elements = [];
	const allElements = document.querySelectorAll('*');
	const patternLower = pattern.toLowerCase();

	for (const el of allElements) {
		const text = el.innerText?.trim();
		const id = el.id?.toLowerCase();
		const className = (typeof el.className === 'string' ? el.className : '').toLowerCase();
		const tagName = el.tagName?.toLowerCase();

		if ((text && text.toLowerCase().includes(patternLower)) ||
			(id && id.includes(patternLower)) ||
			(className && className.includes(patternLower)) ||
			(tagName && patternLower.includes(tagName))) {

			elements.push({
				tag: tagName,
				text: text ? (text.length > 100 ? text.substring(0, 100) + "..." : text) : "",
				id: id || undefined,
				class: className || undefined
			});

			if (elements.length >= 20) break;
		}
	}

	return elements;
}`

// collectSelectorsScript finds visible elements matching the query,
// derives a usable CSS selector for each, and reports center coordinates
// plus a color keyed to the element kind. The query is an argument, not
// script text.
const collectSelectorsScript = `query => {
	const elements = document.querySelectorAll(query);
	const results = [];

	elements.forEach(el => {
		const rect = el.getBoundingClientRect();
		if (rect.width > 0 && rect.height > 0) {
			let selector = '';
			if (el.id) {
				selector = '#' + el.id;
			} else if (el.className && typeof el.className === 'string') {
				const classes = el.className.trim().split(/\s+/).slice(0, 2);
				if (classes.length > 0 && classes[0]) {
					selector = el.tagName.toLowerCase() + '.' + classes.join('.');
				}
			}
			if (!selector) {
				selector = el.tagName.toLowerCase();
				if (el.type) selector += '[type="' + el.type + '"]';
				if (el.name) selector += '[name="' + el.name + '"]';
			}

			let color = '#9c27b0';
			const tag = el.tagName.toLowerCase();
			if (tag === 'button' || el.type === 'button' || el.type === 'submit' || el.getAttribute('role') === 'button') {
				color = '#2196f3';
			} else if (tag === 'input' || tag === 'textarea' || tag === 'select') {
				color = '#4caf50';
			} else if (tag === 'a') {
				color = '#ff9800';
			}

			results.push({
				selector: selector,
				x: rect.left + rect.width / 2,
				y: rect.top + rect.height / 2,
				width: rect.width,
				height: rect.height,
				color: color,
				tag: tag,
				text: (el.innerText || el.value || el.alt || el.title || '').substring(0, 20)
			});
		}
	});

	return results;
}`

// drawSelectorDotScript places one numbered clickable dot below an
// element; clicking the dot shows a centered tooltip with the selector.
// Expects the collected element record plus an index field.
const drawSelectorDotScript = `data => {
	const dot = document.createElement('div');
	dot.className = 'selector-debug-dot';
	dot.style.position = 'absolute';
	dot.style.left = (data.x - 8) + 'px';
	dot.style.top = (data.y + data.height/2 + 12) + 'px';
	dot.style.width = '16px';
	dot.style.height = '16px';
	dot.style.backgroundColor = data.color;
	dot.style.border = '2px solid white';
	dot.style.borderRadius = '50%';
	dot.style.zIndex = '10001';
	dot.style.cursor = 'pointer';
	dot.style.fontSize = '10px';
	dot.style.color = 'white';
	dot.style.fontWeight = 'bold';
	dot.style.fontFamily = 'Arial, sans-serif';
	dot.style.display = 'flex';
	dot.style.alignItems = 'center';
	dot.style.justifyContent = 'center';
	dot.style.lineHeight = '1';
	dot.textContent = (data.index + 1);

	dot.addEventListener('click', (e) => {
		e.stopPropagation();

		let tooltip = document.getElementById('selector-centered-tooltip');
		if (!tooltip) {
			tooltip = document.createElement('div');
			tooltip.id = 'selector-centered-tooltip';
			tooltip.style.position = 'fixed';
			tooltip.style.top = '20px';
			tooltip.style.left = '50%';
			tooltip.style.transform = 'translateX(-50%)';
			tooltip.style.backgroundColor = '#333';
			tooltip.style.color = 'white';
			tooltip.style.padding = '12px 16px';
			tooltip.style.borderRadius = '8px';
			tooltip.style.border = '2px solid white';
			tooltip.style.zIndex = '10004';
			tooltip.style.fontFamily = 'monospace';
			tooltip.style.fontSize = '14px';
			tooltip.style.display = 'none';
			tooltip.style.maxWidth = '80%';
			tooltip.style.boxShadow = '0 4px 12px rgba(0,0,0,0.4)';
			document.body.appendChild(tooltip);
		}

		const label = document.createElement('div');
		label.style.fontWeight = 'bold';
		label.style.color = data.color;
		label.style.marginBottom = '4px';
		label.textContent = data.selector;

		const detail = document.createElement('div');
		detail.style.fontSize = '12px';
		detail.style.color = '#ccc';
		detail.textContent = '<' + data.tag + '>' + (data.text ? ' ' + data.text : '');

		tooltip.replaceChildren(label, detail);
		tooltip.style.display = 'block';

		setTimeout(() => {
			tooltip.style.display = 'none';
		}, 5000);
	});

	document.body.appendChild(dot);
}`

// hideTooltipScript dismisses the selector tooltip on clicks elsewhere.
const hideTooltipScript = `() => {
	document.addEventListener('click', (e) => {
		if (!e.target.closest('.selector-debug-dot') && !e.target.closest('#selector-centered-tooltip')) {
			const tooltip = document.getElementById('selector-centered-tooltip');
			if (tooltip) tooltip.style.display = 'none';
		}
	});
}`

// drawSelectorLegendScript pins the color legend to the top-right corner.
// Expects the total element count.
const drawSelectorLegendScript = `count => {
	const legend = document.createElement('div');
	legend.className = 'selector-legend';
	legend.style.position = 'fixed';
	legend.style.top = '10px';
	legend.style.right = '10px';
	legend.style.backgroundColor = 'rgba(0,0,0,0.8)';
	legend.style.color = 'white';
	legend.style.padding = '8px 12px';
	legend.style.borderRadius = '6px';
	legend.style.fontSize = '11px';
	legend.style.fontFamily = 'Arial, sans-serif';
	legend.style.zIndex = '10003';
	legend.style.lineHeight = '1.4';

	const rows = [
		['', 'Selector Debug (' + count + ' elements)'],
		['#2196f3', 'Buttons'],
		['#4caf50', 'Inputs'],
		['#ff9800', 'Links'],
		['#9c27b0', 'Other'],
	];
	rows.forEach(([color, label], i) => {
		const row = document.createElement('div');
		if (i === 0) {
			row.style.fontWeight = 'bold';
			row.style.marginBottom = '4px';
			row.textContent = label;
		} else {
			const dot = document.createElement('span');
			dot.style.color = color;
			dot.textContent = '● ';
			row.appendChild(dot);
			row.appendChild(document.createTextNode(label));
		}
		legend.appendChild(row);
	});

	const hint = document.createElement('div');
	hint.style.marginTop = '4px';
	hint.style.fontSize = '10px';
	hint.style.color = '#ccc';
	hint.textContent = 'Click dots for details';
	legend.appendChild(hint);

	document.body.appendChild(legend);
}`
